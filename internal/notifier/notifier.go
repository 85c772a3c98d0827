// Package notifier отслеживает появление более новых заголовков и рассылает
// push-уведомления подписчикам.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"watch/internal/domain"
	"watch/internal/metrics"
)

// NewsSource отдаёт новости, отсортированные от новых к старым.
type NewsSource interface {
	GetNews(ctx context.Context) ([]domain.NewsItem, error)
}

// Subscriptions - живой набор push-получателей.
type Subscriptions interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Remove(ctx context.Context, endpoint string) error
}

// Sender доставляет payload одному получателю.
type Sender interface {
	Send(ctx context.Context, sub domain.Subscription, payload []byte) error
}

// Payload - тело push-сообщения, которое разбирает service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Notifier хранит момент последнего уведомления и при каждой проверке
// сравнивает с ним дату самой свежей новости. Уведомление отправляется
// только когда эта дата строго больше сохранённой.
type Notifier struct {
	news   NewsSource
	subs   Subscriptions
	sender Sender
	title  string
	log    *slog.Logger

	checkMu sync.Mutex
	mu      sync.Mutex
	last    *time.Time
}

// New создает нотификатор. sender равен nil, если VAPID-ключи не заданы:
// состояние при этом продвигается, но сообщения не отправляются.
func New(news NewsSource, subs Subscriptions, sender Sender, title string, log *slog.Logger) *Notifier {
	return &Notifier{
		news:   news,
		subs:   subs,
		sender: sender,
		title:  title,
		log:    log.With(slog.String("component", "notifier")),
	}
}

// Last возвращает момент последнего уведомления или nil.
func (n *Notifier) Last() *time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return nil
	}
	t := *n.last
	return &t
}

// Check выполняет одну проверку. Проверки сериализуются.
func (n *Notifier) Check(ctx context.Context) error {
	const op = "notifier.Check"
	n.checkMu.Lock()
	defer n.checkMu.Unlock()

	news, err := n.news.GetNews(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to read news: %w", op, err)
	}
	if len(news) == 0 {
		return nil
	}
	newest := news[0]
	if newest.Published == nil {
		return nil
	}
	published := *newest.Published
	if !n.advance(published) {
		return nil
	}
	metrics.Notifications.Inc()
	n.log.Info("New headline detected",
		slog.String("op", op),
		slog.String("feed", newest.Source),
		slog.String("title", newest.Title),
		slog.Time("published", published),
	)

	if n.sender == nil {
		n.log.Debug("Push disabled, skipping delivery", slog.String("op", op))
		return nil
	}
	payload, err := json.Marshal(n.payloadFor(newest))
	if err != nil {
		return fmt.Errorf("%s: failed to build payload: %w", op, err)
	}
	n.deliver(ctx, payload)
	return nil
}

// advance сохраняет t, если он строго позже последнего уведомления.
func (n *Notifier) advance(t time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last != nil && !t.After(*n.last) {
		return false
	}
	n.last = &t
	return true
}

func (n *Notifier) payloadFor(item domain.NewsItem) Payload {
	url := item.Link
	if url == "" {
		url = "/"
	}
	return Payload{Title: n.title, Body: item.Title, URL: url}
}

// deliver рассылает payload всем текущим получателям. Отклонивший доставку
// получатель сразу удаляется; остальные получают сообщение.
func (n *Notifier) deliver(ctx context.Context, payload []byte) {
	const op = "notifier.deliver"
	subs, err := n.subs.List(ctx)
	if err != nil {
		n.log.Error("Failed to list subscriptions", slog.String("op", op), slog.Any("error", err))
		return
	}
	sent := 0
	for _, sub := range subs {
		if err := n.sender.Send(ctx, sub, payload); err != nil {
			metrics.PushDeliveries.WithLabelValues("rejected").Inc()
			n.log.Warn("Push failed, removing subscription",
				slog.String("op", op),
				slog.String("endpoint", sub.Endpoint),
				slog.Any("error", err),
			)
			if rmErr := n.subs.Remove(ctx, sub.Endpoint); rmErr != nil {
				n.log.Error("Failed to remove subscription",
					slog.String("op", op),
					slog.String("endpoint", sub.Endpoint),
					slog.Any("error", rmErr),
				)
			}
			continue
		}
		metrics.PushDeliveries.WithLabelValues("sent").Inc()
		sent++
	}
	n.log.Info("Notification delivered",
		slog.String("op", op),
		slog.Int("sent", sent),
		slog.Int("total", len(subs)),
	)
}
