package service

import (
	"context"
	"strings"

	"github.com/iliyamo/topic-feed-service/internal/model"
	"github.com/iliyamo/topic-feed-service/internal/repository"
)

// PostStore is the slice of post storage the feed needs.
type PostStore interface {
	GetByID(ctx context.Context, id uint64) (model.Post, error)
	ListByTopic(ctx context.Context, topicID uint64) ([]model.Post, error)
	ListBySubscribedTopics(ctx context.Context, userID uint64, ascending bool) ([]model.Post, error)
	Create(ctx context.Context, authorID, topicID uint64, title, content string) (uint64, error)
	Update(ctx context.Context, p model.Post) error
	Delete(ctx context.Context, id uint64) error
}

// CommentStore is the slice of comment storage the feed needs.
type CommentStore interface {
	GetByID(ctx context.Context, id uint64) (model.Comment, error)
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
	Create(ctx context.Context, authorID, postID uint64, content string) (uint64, error)
	Delete(ctx context.Context, id uint64) error
}

// FeedAssembler resolves the personalized feed and owns the post and
// comment lifecycle. Ownership checks are strict equality on the
// author id; there is no elevated-role override.
type FeedAssembler struct {
	topics   TopicStore
	posts    PostStore
	comments CommentStore
}

func NewFeedAssembler(topics TopicStore, posts PostStore, comments CommentStore) *FeedAssembler {
	return &FeedAssembler{topics: topics, posts: posts, comments: comments}
}

// GetFeed returns all posts from the user's subscribed topics ordered
// by creation time. sortOrder "asc" (case-insensitive) gives oldest
// first; any other value falls back to newest first. A user with no
// subscriptions gets an empty feed, not an error.
func (f *FeedAssembler) GetFeed(ctx context.Context, userID uint64, sortOrder string) ([]model.Post, error) {
	ascending := strings.EqualFold(strings.TrimSpace(sortOrder), "asc")
	return f.posts.ListBySubscribedTopics(ctx, userID, ascending)
}

// GetPostsByTopic lists the posts of one topic; the topic must exist.
func (f *FeedAssembler) GetPostsByTopic(ctx context.Context, topicID uint64) ([]model.Post, error) {
	if _, err := f.topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	return f.posts.ListByTopic(ctx, topicID)
}

// GetPostByID fetches a single post.
func (f *FeedAssembler) GetPostByID(ctx context.Context, id uint64) (model.Post, error) {
	return f.posts.GetByID(ctx, id)
}

// CreatePost persists a new post after checking the topic exists. The
// returned post carries the storage-assigned id and timestamps.
func (f *FeedAssembler) CreatePost(ctx context.Context, authorID, topicID uint64, title, content string) (model.Post, error) {
	if _, err := f.topics.GetByID(ctx, topicID); err != nil {
		return model.Post{}, err
	}
	id, err := f.posts.Create(ctx, authorID, topicID, title, content)
	if err != nil {
		return model.Post{}, err
	}
	return f.posts.GetByID(ctx, id)
}

// UpdatePost applies a partial update to the requester's own post.
// Empty title/content leave the field unchanged; topicID 0 keeps the
// current topic, any other value must reference an existing topic.
func (f *FeedAssembler) UpdatePost(ctx context.Context, postID, requesterID uint64, title, content string, topicID uint64) (model.Post, error) {
	p, err := f.posts.GetByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if p.AuthorID != requesterID {
		return model.Post{}, repository.ErrForbidden
	}
	if title != "" {
		p.Title = title
	}
	if content != "" {
		p.Content = content
	}
	if topicID != 0 && topicID != p.TopicID {
		if _, err := f.topics.GetByID(ctx, topicID); err != nil {
			return model.Post{}, err
		}
		p.TopicID = topicID
	}
	if err := f.posts.Update(ctx, p); err != nil {
		return model.Post{}, err
	}
	return f.posts.GetByID(ctx, postID)
}

// DeletePost removes the requester's own post.
func (f *FeedAssembler) DeletePost(ctx context.Context, postID, requesterID uint64) error {
	p, err := f.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return repository.ErrForbidden
	}
	return f.posts.Delete(ctx, postID)
}

// CommentsByPost lists the comments of one post; the post must exist.
func (f *FeedAssembler) CommentsByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	if _, err := f.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return f.comments.ListByPost(ctx, postID)
}

// CreateComment persists a comment on an existing post.
func (f *FeedAssembler) CreateComment(ctx context.Context, authorID, postID uint64, content string) (model.Comment, error) {
	if _, err := f.posts.GetByID(ctx, postID); err != nil {
		return model.Comment{}, err
	}
	id, err := f.comments.Create(ctx, authorID, postID, content)
	if err != nil {
		return model.Comment{}, err
	}
	return f.comments.GetByID(ctx, id)
}

// DeleteComment removes the requester's own comment.
func (f *FeedAssembler) DeleteComment(ctx context.Context, commentID, requesterID uint64) error {
	c, err := f.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != requesterID {
		return repository.ErrForbidden
	}
	return f.comments.Delete(ctx, commentID)
}
