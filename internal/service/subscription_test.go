package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/topic-feed-service/internal/repository"
)

func newRegistry(m *memStore) *SubscriptionRegistry {
	return NewSubscriptionRegistry(m, topicStore{m}, subStore{m})
}

func TestSubscribeTwiceFails(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	topic := m.addTopic("go")
	reg := newRegistry(m)
	ctx := context.Background()

	if err := reg.Subscribe(ctx, u.ID, topic.ID); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	err := reg.Subscribe(ctx, u.ID, topic.ID)
	if !errors.Is(err, repository.ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestUnsubscribeWithoutSubscription(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	topic := m.addTopic("go")
	reg := newRegistry(m)

	err := reg.Unsubscribe(context.Background(), u.ID, topic.ID)
	if !errors.Is(err, repository.ErrNotSubscribed) {
		t.Fatalf("expected ErrNotSubscribed, got %v", err)
	}
}

func TestSubscribeMissingEntities(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	topic := m.addTopic("go")
	reg := newRegistry(m)
	ctx := context.Background()

	if err := reg.Subscribe(ctx, 999, topic.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := reg.Subscribe(ctx, u.ID, 999); !errors.Is(err, repository.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestListSubscriptionsInsertionOrder(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	t1 := m.addTopic("go")
	t2 := m.addTopic("rust")
	t3 := m.addTopic("zig")
	reg := newRegistry(m)
	ctx := context.Background()

	for _, id := range []uint64{t2.ID, t1.ID, t3.ID} {
		if err := reg.Subscribe(ctx, u.ID, id); err != nil {
			t.Fatalf("subscribe %d: %v", id, err)
		}
	}

	topics, err := reg.ListSubscriptions(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uint64{t2.ID, t1.ID, t3.ID}
	if len(topics) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(topics))
	}
	for i, id := range want {
		if topics[i].ID != id {
			t.Fatalf("position %d: expected topic %d, got %d", i, id, topics[i].ID)
		}
	}
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	topic := m.addTopic("go")
	reg := newRegistry(m)
	ctx := context.Background()

	if err := reg.Subscribe(ctx, u.ID, topic.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := reg.Unsubscribe(ctx, u.ID, topic.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	topics, err := reg.ListSubscriptions(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(topics) != 0 {
		t.Fatalf("expected no subscriptions, got %d", len(topics))
	}
}

func TestConcurrentSubscribeSamePair(t *testing.T) {
	m := newMemStore()
	u := m.addUser("alice@example.com", "alice")
	topic := m.addTopic("go")
	reg := newRegistry(m)
	ctx := context.Background()

	// The striped lock serializes the read-check-write sequence, so out
	// of N concurrent attempts exactly one succeeds.
	const n = 8
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() { results <- reg.Subscribe(ctx, u.ID, topic.ID) }()
	}

	var okCount, dupCount int
	for i := 0; i < n; i++ {
		switch err := <-results; {
		case err == nil:
			okCount++
		case errors.Is(err, repository.ErrAlreadySubscribed):
			dupCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || dupCount != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d/%d", n-1, okCount, dupCount)
	}
}
