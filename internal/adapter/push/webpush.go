package push

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"watch/internal/config"
	"watch/internal/domain"
)

const sendTimeout = 15 * time.Second

// RejectedError означает, что push-сервис отклонил доставку.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("push service rejected delivery: status %d", e.StatusCode)
}

// WebPushSender доставляет зашифрованные сообщения Web Push с VAPID-подписью.
type WebPushSender struct {
	client *http.Client
	opts   webpush.Options
	log    *slog.Logger
}

// NewWebPushSender создает отправителя. Вызывающий проверяет,
// что cfg.Enabled() истинно. Библиотека сама добавляет "mailto:" к
// subject, поэтому префикс из конфигурации снимается.
func NewWebPushSender(cfg config.PushConfig, log *slog.Logger) *WebPushSender {
	client := &http.Client{Timeout: sendTimeout}
	return &WebPushSender{
		client: client,
		opts: webpush.Options{
			HTTPClient:      client,
			Subscriber:      strings.TrimPrefix(cfg.Subject, "mailto:"),
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             cfg.TTL,
		},
		log: log.With(slog.String("component", "webpush")),
	}
}

// Send отправляет payload одному получателю. Любой ответ вне 2xx
// возвращается как *RejectedError.
func (s *WebPushSender) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}
	opts := s.opts
	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &opts)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RejectedError{StatusCode: resp.StatusCode}
	}
	s.log.Debug("Push delivered",
		slog.String("endpoint", sub.Endpoint),
		slog.Int("status_code", resp.StatusCode),
	)
	return nil
}

// GenerateKeys создает новую пару VAPID-ключей.
func GenerateKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate VAPID keys: %w", err)
	}
	return publicKey, privateKey, nil
}
