package model

import "time"

// Post represents a row of the `posts` table. A post always belongs to
// exactly one topic and one author; both must exist when the post is
// created.
type Post struct {
	ID        uint64    // posts.id
	Title     string    // posts.title
	Content   string    // posts.content
	AuthorID  uint64    // posts.author_id
	TopicID   uint64    // posts.topic_id
	CreatedAt time.Time // posts.created_at
	UpdatedAt time.Time // posts.updated_at
}

// Comment represents a row of the `comments` table.
type Comment struct {
	ID        uint64    // comments.id
	Content   string    // comments.content
	AuthorID  uint64    // comments.author_id
	PostID    uint64    // comments.post_id
	CreatedAt time.Time // comments.created_at
	UpdatedAt time.Time // comments.updated_at
}
