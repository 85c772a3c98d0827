package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"watch/internal/domain"
	"watch/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedNews struct {
	items []domain.NewsItem
	err   error
}

func (s *scriptedNews) GetNews(ctx context.Context) ([]domain.NewsItem, error) {
	return s.items, s.err
}

type delivery struct {
	endpoint string
	payload  Payload
}

type recordingSender struct {
	mu        sync.Mutex
	reject    map[string]bool
	delivered []delivery
}

func (r *recordingSender) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reject[sub.Endpoint] {
		return errors.New("410 Gone")
	}
	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	r.delivered = append(r.delivered, delivery{endpoint: sub.Endpoint, payload: p})
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func item(title string, published *time.Time) domain.NewsItem {
	return domain.NewsItem{Source: "A", Title: title, Link: "https://a/" + title, Published: published, Topics: []string{}}
}

func ptr(t time.Time) *time.Time { return &t }

func newTestStore(t *testing.T, endpoints ...string) *storage.MemorySubscriptionStore {
	t.Helper()
	store := storage.NewMemorySubscriptionStore(testLogger())
	for _, e := range endpoints {
		require.NoError(t, store.Add(context.Background(), domain.Subscription{Endpoint: e}))
	}
	return store
}

func TestNotifier_Check_OncePerNewerInstant(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	news := &scriptedNews{}
	sender := &recordingSender{}
	n := New(news, newTestStore(t, "https://push/1"), sender, "Headline", testLogger())

	news.items = []domain.NewsItem{item("undated", nil)}
	require.NoError(t, n.Check(ctx))
	assert.Equal(t, 0, sender.count())
	assert.Nil(t, n.Last())

	news.items = []domain.NewsItem{item("first", ptr(t1))}
	require.NoError(t, n.Check(ctx))
	assert.Equal(t, 1, sender.count())

	news.items = []domain.NewsItem{item("first-again", ptr(t1))}
	require.NoError(t, n.Check(ctx))
	assert.Equal(t, 1, sender.count())

	news.items = []domain.NewsItem{item("second", ptr(t2)), item("first", ptr(t1))}
	require.NoError(t, n.Check(ctx))
	require.Equal(t, 2, sender.count())
	assert.Equal(t, "second", sender.delivered[1].payload.Body)
	require.NotNil(t, n.Last())
	assert.True(t, n.Last().Equal(t2))
}

func TestNotifier_Check_OlderInstantIgnored(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	news := &scriptedNews{items: []domain.NewsItem{item("new", ptr(t1))}}
	sender := &recordingSender{}
	n := New(news, newTestStore(t, "https://push/1"), sender, "Headline", testLogger())

	require.NoError(t, n.Check(ctx))
	news.items = []domain.NewsItem{item("older", ptr(t1.Add(-time.Hour)))}
	require.NoError(t, n.Check(ctx))

	assert.Equal(t, 1, sender.count())
	assert.True(t, n.Last().Equal(t1))
}

func TestNotifier_Check_EmptyNews(t *testing.T) {
	sender := &recordingSender{}
	n := New(&scriptedNews{}, newTestStore(t, "https://push/1"), sender, "Headline", testLogger())

	require.NoError(t, n.Check(context.Background()))

	assert.Equal(t, 0, sender.count())
	assert.Nil(t, n.Last())
}

func TestNotifier_Check_NewsError(t *testing.T) {
	n := New(&scriptedNews{err: errors.New("down")}, newTestStore(t), &recordingSender{}, "Headline", testLogger())

	err := n.Check(context.Background())

	assert.Error(t, err)
	assert.Nil(t, n.Last())
}

func TestNotifier_Check_Payload(t *testing.T) {
	news := &scriptedNews{items: []domain.NewsItem{{Title: "No link", Published: ptr(time.Now())}}}
	sender := &recordingSender{}
	n := New(news, newTestStore(t, "https://push/1"), sender, "Prophecy Watch — New headline", testLogger())

	require.NoError(t, n.Check(context.Background()))

	require.Equal(t, 1, sender.count())
	assert.Equal(t, Payload{Title: "Prophecy Watch — New headline", Body: "No link", URL: "/"}, sender.delivered[0].payload)
}

func TestNotifier_Check_RemovesRejectedReceiver(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "https://push/ok-1", "https://push/gone", "https://push/ok-2")
	sender := &recordingSender{reject: map[string]bool{"https://push/gone": true}}
	news := &scriptedNews{items: []domain.NewsItem{item("x", ptr(time.Now()))}}
	n := New(news, store, sender, "Headline", testLogger())

	require.NoError(t, n.Check(ctx))

	subs, err := store.List(ctx)
	require.NoError(t, err)
	endpoints := make([]string, 0, len(subs))
	for _, s := range subs {
		endpoints = append(endpoints, s.Endpoint)
	}
	assert.Equal(t, []string{"https://push/ok-1", "https://push/ok-2"}, endpoints)
	assert.Equal(t, 2, sender.count())
	assert.NotNil(t, n.Last())
}

func TestNotifier_Check_PushDisabledStillAdvances(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	news := &scriptedNews{items: []domain.NewsItem{item("x", ptr(t1))}}
	store := newTestStore(t, "https://push/1")
	n := New(news, store, nil, "Headline", testLogger())

	require.NoError(t, n.Check(ctx))

	require.NotNil(t, n.Last())
	assert.True(t, n.Last().Equal(t1))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
