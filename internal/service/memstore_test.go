package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/topic-feed-service/internal/model"
	"github.com/iliyamo/topic-feed-service/internal/repository"
)

// memStore is an in-memory stand-in for the MySQL repositories. It
// mirrors their error contracts (sentinels from the repository
// package) and the feed query's ordering so service behavior can be
// exercised without a database.
type memStore struct {
	users    map[uint64]model.User
	topics   map[uint64]model.Topic
	subs     []model.Subscription
	posts    map[uint64]model.Post
	comments map[uint64]model.Comment
	nextID   uint64
	now      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uint64]model.User{},
		topics:   map[uint64]model.Topic{},
		posts:    map[uint64]model.Post{},
		comments: map[uint64]model.Comment{},
		nextID:   1,
		now:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so successive writes get distinct
// timestamps.
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memStore) id() uint64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) addUser(email, username string) model.User {
	u := model.User{ID: m.id(), Email: email, Username: username, CreatedAt: m.tick(), UpdatedAt: m.now}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addTopic(title string) model.Topic {
	t := model.Topic{ID: m.id(), Title: title, CreatedAt: m.tick(), UpdatedAt: m.now}
	m.topics[t.ID] = t
	return t
}

func (m *memStore) addPost(authorID, topicID uint64, title string) model.Post {
	p := model.Post{ID: m.id(), Title: title, Content: title + " body", AuthorID: authorID, TopicID: topicID, CreatedAt: m.tick(), UpdatedAt: m.now}
	m.posts[p.ID] = p
	return p
}

func (m *memStore) addComment(authorID, postID uint64, content string) model.Comment {
	c := model.Comment{ID: m.id(), Content: content, AuthorID: authorID, PostID: postID, CreatedAt: m.tick(), UpdatedAt: m.now}
	m.comments[c.ID] = c
	return c
}

// ----- UserStore -----

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// topicStore adapts memStore to the TopicStore interface; a separate
// type is needed because GetByID collides with the user lookup.
type topicStore struct{ m *memStore }

func (s topicStore) GetByID(_ context.Context, id uint64) (model.Topic, error) {
	t, ok := s.m.topics[id]
	if !ok {
		return model.Topic{}, repository.ErrTopicNotFound
	}
	return t, nil
}

func (s topicStore) List(context.Context) ([]model.Topic, error) {
	out := make([]model.Topic, 0, len(s.m.topics))
	for _, t := range s.m.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ----- SubscriptionStore -----

type subStore struct{ m *memStore }

func (s subStore) Exists(_ context.Context, userID, topicID uint64) (bool, error) {
	for _, sub := range s.m.subs {
		if sub.UserID == userID && sub.TopicID == topicID {
			return true, nil
		}
	}
	return false, nil
}

func (s subStore) Create(_ context.Context, userID, topicID uint64) error {
	if ok, _ := s.Exists(nil, userID, topicID); ok {
		return repository.ErrAlreadySubscribed
	}
	s.m.subs = append(s.m.subs, model.Subscription{ID: s.m.id(), UserID: userID, TopicID: topicID, CreatedAt: s.m.tick()})
	return nil
}

func (s subStore) Delete(_ context.Context, userID, topicID uint64) error {
	for i, sub := range s.m.subs {
		if sub.UserID == userID && sub.TopicID == topicID {
			s.m.subs = append(s.m.subs[:i], s.m.subs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotSubscribed
}

func (s subStore) ListTopicsByUser(_ context.Context, userID uint64) ([]model.Topic, error) {
	out := []model.Topic{}
	for _, sub := range s.m.subs { // insertion order, like the SQL query
		if sub.UserID == userID {
			out = append(out, s.m.topics[sub.TopicID])
		}
	}
	return out, nil
}

// ----- PostStore -----

type postStore struct{ m *memStore }

func (s postStore) GetByID(_ context.Context, id uint64) (model.Post, error) {
	p, ok := s.m.posts[id]
	if !ok {
		return model.Post{}, repository.ErrPostNotFound
	}
	return p, nil
}

func (s postStore) ListByTopic(_ context.Context, topicID uint64) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range s.m.posts {
		if p.TopicID == topicID {
			out = append(out, p)
		}
	}
	sortPosts(out, false)
	return out, nil
}

func (s postStore) ListBySubscribedTopics(_ context.Context, userID uint64, ascending bool) ([]model.Post, error) {
	subscribed := map[uint64]bool{}
	for _, sub := range s.m.subs {
		if sub.UserID == userID {
			subscribed[sub.TopicID] = true
		}
	}
	out := []model.Post{}
	for _, p := range s.m.posts {
		if subscribed[p.TopicID] {
			out = append(out, p)
		}
	}
	sortPosts(out, ascending)
	return out, nil
}

func (s postStore) Create(_ context.Context, authorID, topicID uint64, title, content string) (uint64, error) {
	p := model.Post{ID: s.m.id(), Title: title, Content: content, AuthorID: authorID, TopicID: topicID, CreatedAt: s.m.tick(), UpdatedAt: s.m.now}
	s.m.posts[p.ID] = p
	return p.ID, nil
}

func (s postStore) Update(_ context.Context, p model.Post) error {
	cur, ok := s.m.posts[p.ID]
	if !ok {
		return repository.ErrPostNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.m.tick()
	s.m.posts[p.ID] = p
	return nil
}

func (s postStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.m.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.m.posts, id)
	return nil
}

func sortPosts(posts []model.Post, ascending bool) {
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if ascending {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if ascending {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
}

// ----- CommentStore -----

type commentStore struct{ m *memStore }

func (s commentStore) GetByID(_ context.Context, id uint64) (model.Comment, error) {
	c, ok := s.m.comments[id]
	if !ok {
		return model.Comment{}, repository.ErrCommentNotFound
	}
	return c, nil
}

func (s commentStore) ListByPost(_ context.Context, postID uint64) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range s.m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s commentStore) Create(_ context.Context, authorID, postID uint64, content string) (uint64, error) {
	c := model.Comment{ID: s.m.id(), Content: content, AuthorID: authorID, PostID: postID, CreatedAt: s.m.tick(), UpdatedAt: s.m.now}
	s.m.comments[c.ID] = c
	return c.ID, nil
}

func (s commentStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.m.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(s.m.comments, id)
	return nil
}
