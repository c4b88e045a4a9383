package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/topic-feed-service/internal/model"
)

// CommentRepo provides access to the 'comments' table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,content,author_id,post_id,created_at,updated_at"

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrCommentNotFound
	}
	return c, err
}

// ListByPost returns the comments of one post, oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id=? ORDER BY created_at, id",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a comment and returns its ID.
func (r *CommentRepo) Create(ctx context.Context, authorID, postID uint64, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (content, author_id, post_id) VALUES (?,?,?)",
		content, authorID, postID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes a comment; ErrCommentNotFound when no row matched.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
