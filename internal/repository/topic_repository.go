package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/topic-feed-service/internal/model"
)

// TopicRepo provides read access to the 'topics' table. Topics are
// seeded out of band; the API never creates them.
type TopicRepo struct{ DB *sql.DB }

func NewTopicRepo(db *sql.DB) *TopicRepo { return &TopicRepo{DB: db} }

const topicColumns = "id,title,description,created_at,updated_at"

// GetByID fetches a topic by id.
func (r *TopicRepo) GetByID(ctx context.Context, id uint64) (model.Topic, error) {
	var t model.Topic
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+topicColumns+" FROM topics WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Topic{}, ErrTopicNotFound
	}
	return t, err
}

// List returns all topics ordered by id.
func (r *TopicRepo) List(ctx context.Context) ([]model.Topic, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+topicColumns+" FROM topics ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
