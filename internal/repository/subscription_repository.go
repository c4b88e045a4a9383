package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/topic-feed-service/internal/model"
)

// SubscriptionRepo manages the many-to-many relation between users and
// topics in the 'subscriptions' table. A unique index on
// (user_id, topic_id) backs the at-most-once invariant.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// Exists reports whether the (user, topic) pair is present.
func (r *SubscriptionRepo) Exists(ctx context.Context, userID, topicID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM subscriptions WHERE user_id=? AND topic_id=? LIMIT 1",
		userID, topicID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts the relation. A duplicate pair maps to
// ErrAlreadySubscribed so the invariant holds even when two requests
// race past the existence check.
func (r *SubscriptionRepo) Create(ctx context.Context, userID, topicID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscriptions (user_id, topic_id) VALUES (?,?)",
		userID, topicID)
	if isDuplicateKey(err) {
		return ErrAlreadySubscribed
	}
	return err
}

// Delete removes the relation; ErrNotSubscribed when no row matched.
func (r *SubscriptionRepo) Delete(ctx context.Context, userID, topicID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE user_id=? AND topic_id=?",
		userID, topicID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// ListTopicsByUser returns the topics the user subscribes to in
// insertion order of the relation rows.
func (r *SubscriptionRepo) ListTopicsByUser(ctx context.Context, userID uint64) ([]model.Topic, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.title, t.description, t.created_at, t.updated_at
		 FROM subscriptions s
		 JOIN topics t ON t.id = s.topic_id
		 WHERE s.user_id=?
		 ORDER BY s.created_at, s.id`, userID)
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
