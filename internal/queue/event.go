// Package queue defines message payloads exchanged over the message broker.
package queue

// PostPublishedEvent is published when a post is successfully created.
// It carries enough information for downstream consumers to log or
// notify subscribers without querying the primary database.
type PostPublishedEvent struct {
	PostID      uint64 `json:"post_id"`
	TopicID     uint64 `json:"topic_id"`
	TopicTitle  string `json:"topic_title"`
	AuthorID    uint64 `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
}
