package model

import "time"

// Topic represents a row of the `topics` table. Topics are created out
// of band (seed data or admin tooling); the API only reads them and
// manages subscriptions against them.
type Topic struct {
	ID          uint64    // topics.id
	Title       string    // topics.title
	Description string    // topics.description
	CreatedAt   time.Time // topics.created_at
	UpdatedAt   time.Time // topics.updated_at
}

// Subscription links one user to one topic. The (UserID, TopicID) pair
// is unique in the table; CreatedAt preserves insertion order for
// listing.
type Subscription struct {
	ID        uint64    // subscriptions.id
	UserID    uint64    // subscriptions.user_id
	TopicID   uint64    // subscriptions.topic_id
	CreatedAt time.Time // subscriptions.created_at
}
