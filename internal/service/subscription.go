// Package service holds the domain logic sitting between handlers and
// repositories: subscription management and feed assembly. Both
// components consume narrow store interfaces so they can be exercised
// against in-memory fakes in tests.
package service

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/iliyamo/topic-feed-service/internal/model"
	"github.com/iliyamo/topic-feed-service/internal/repository"
)

// UserStore is the slice of user storage the services need.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TopicStore is the slice of topic storage the services need.
type TopicStore interface {
	GetByID(ctx context.Context, id uint64) (model.Topic, error)
	List(ctx context.Context) ([]model.Topic, error)
}

// SubscriptionStore persists the user-topic relation.
type SubscriptionStore interface {
	Exists(ctx context.Context, userID, topicID uint64) (bool, error)
	Create(ctx context.Context, userID, topicID uint64) error
	Delete(ctx context.Context, userID, topicID uint64) error
	ListTopicsByUser(ctx context.Context, userID uint64) ([]model.Topic, error)
}

// pairLocks is the number of mutex stripes guarding subscribe and
// unsubscribe. Collisions between distinct pairs only cost contention,
// never correctness.
const pairLocks = 64

// SubscriptionRegistry manages topic subscriptions. Subscribe and
// unsubscribe on the same (user, topic) pair are serialized through a
// striped mutex so the read-check-write sequence cannot interleave;
// the unique index in the subscriptions table backs the invariant
// across processes.
type SubscriptionRegistry struct {
	users  UserStore
	topics TopicStore
	subs   SubscriptionStore
	locks  [pairLocks]sync.Mutex
}

func NewSubscriptionRegistry(users UserStore, topics TopicStore, subs SubscriptionStore) *SubscriptionRegistry {
	return &SubscriptionRegistry{users: users, topics: topics, subs: subs}
}

func (s *SubscriptionRegistry) pairLock(userID, topicID uint64) *sync.Mutex {
	h := fnv.New32a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(userID >> (8 * i))
		buf[8+i] = byte(topicID >> (8 * i))
	}
	h.Write(buf[:])
	return &s.locks[h.Sum32()%pairLocks]
}

// Subscribe links userID to topicID. Both entities must exist; a pair
// already present fails with repository.ErrAlreadySubscribed.
func (s *SubscriptionRegistry) Subscribe(ctx context.Context, userID, topicID uint64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return err
	}

	mu := s.pairLock(userID, topicID)
	mu.Lock()
	defer mu.Unlock()

	exists, err := s.subs.Exists(ctx, userID, topicID)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrAlreadySubscribed
	}
	return s.subs.Create(ctx, userID, topicID)
}

// Unsubscribe removes the link; a pair not present fails with
// repository.ErrNotSubscribed.
func (s *SubscriptionRegistry) Unsubscribe(ctx context.Context, userID, topicID uint64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return err
	}

	mu := s.pairLock(userID, topicID)
	mu.Lock()
	defer mu.Unlock()

	return s.subs.Delete(ctx, userID, topicID)
}

// ListSubscriptions returns the user's topics in insertion order of the
// underlying relation rows.
func (s *SubscriptionRegistry) ListSubscriptions(ctx context.Context, userID uint64) ([]model.Topic, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.subs.ListTopicsByUser(ctx, userID)
}
