package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"watch/internal/config"
)

const (
	userAgent            = "Mozilla/5.0 (compatible; ProphecyWatch/1.0)"
	acceptHeader         = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"
	defaultRetryInterval = 300 * time.Millisecond
)

// HTTPFetcher загружает RSS-ленты по HTTP.
// Каждый вызов Fetch ограничен фиксированным таймаутом, включая чтение тела
// ответа. Сетевые ошибки, 429 и 5xx повторяются с экспоненциальной задержкой,
// остальные статусы считаются окончательной ошибкой.
type HTTPFetcher struct {
	client        *http.Client
	log           *slog.Logger
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
}

// NewHTTPFetcher создает HTTPFetcher с параметрами из конфигурации.
func NewHTTPFetcher(log *slog.Logger, cfg config.FetchConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:        &http.Client{},
		log:           log,
		timeout:       cfg.Timeout,
		retries:       cfg.Retries,
		retryInterval: defaultRetryInterval,
	}
}

// Fetch выполняет GET-запрос и возвращает тело ответа.
// Тело нужно закрыть; закрытие также освобождает контекст таймаута.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", url))
	log.Debug("Fetching URL")

	ctx, cancel := context.WithTimeout(ctx, f.timeout)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryInterval
	policy.MaxElapsedTime = f.timeout
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.retries)), ctx)

	var body io.ReadCloser
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request for url %s: %w", url, err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", acceptHeader)
		resp, err := f.client.Do(req)
		if err != nil {
			log.Warn("HTTP request failed", slog.Int("attempt", attempt), slog.Any("error", err))
			return fmt.Errorf("failed to fetch url %s: %w", url, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Warn("Unexpected status code",
				slog.Int("attempt", attempt),
				slog.Int("status_code", resp.StatusCode),
			)
			statusErr := fmt.Errorf("unexpected status code: %d for url %s", resp.StatusCode, url)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		body = resp.Body
		return nil
	}

	if err := backoff.Retry(operation, retry); err != nil {
		cancel()
		log.Error("Feed fetch failed", slog.Int("attempts", attempt), slog.Any("error", err))
		return nil, err
	}
	log.Debug("Successfully fetched URL", slog.Int("attempts", attempt))
	return &cancelOnClose{ReadCloser: body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
