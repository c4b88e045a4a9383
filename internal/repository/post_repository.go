package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/topic-feed-service/internal/model"
)

// PostRepo provides access to the 'posts' table, including the
// subscription-scoped feed query.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,title,content,author_id,topic_id,created_at,updated_at"

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.TopicID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	return p, err
}

// ListByTopic returns all posts of one topic, newest first.
func (r *PostRepo) ListByTopic(ctx context.Context, topicID uint64) ([]model.Post, error) {
	return r.list(ctx,
		"SELECT "+postColumns+" FROM posts WHERE topic_id=? ORDER BY created_at DESC, id DESC",
		topicID)
}

// ListBySubscribedTopics returns every post whose topic the user
// subscribes to, ordered by creation time. ascending=false yields the
// newest-first default. The id tiebreak keeps the order deterministic
// for posts created in the same instant.
func (r *PostRepo) ListBySubscribedTopics(ctx context.Context, userID uint64, ascending bool) ([]model.Post, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	return r.list(ctx,
		`SELECT p.id, p.title, p.content, p.author_id, p.topic_id, p.created_at, p.updated_at
		 FROM posts p
		 JOIN subscriptions s ON s.topic_id = p.topic_id
		 WHERE s.user_id=?
		 ORDER BY p.created_at `+order+`, p.id `+order,
		userID)
}

// Create inserts a post and returns its ID. Both timestamps default to
// the insert time on the database side.
func (r *PostRepo) Create(ctx context.Context, authorID, topicID uint64, title, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, content, author_id, topic_id) VALUES (?,?,?,?)",
		title, content, authorID, topicID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update persists title, content and topic and bumps updated_at.
func (r *PostRepo) Update(ctx context.Context, p model.Post) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, topic_id=?, updated_at=NOW() WHERE id=?",
		p.Title, p.Content, p.TopicID, p.ID)
	return err
}

// Delete removes a post; ErrPostNotFound when no row matched.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.TopicID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
