package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"watch/internal/domain"
	"watch/internal/metrics"
)

type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresSubscriptionStore(pool *pgxpool.Pool, log *slog.Logger) *PostgresSubscriptionStore {
	log.Info("Initializing Postgres subscription storage")
	return &PostgresSubscriptionStore{
		pool: pool,
		log:  log,
	}
}

func (db *PostgresSubscriptionStore) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

// Add сохраняет подписку; существующая запись с тем же endpoint обновляется.
func (db *PostgresSubscriptionStore) Add(ctx context.Context, sub domain.Subscription) error {
	const op = "storage.postgres.Add"
	query := `
	INSERT INTO push_subscriptions (endpoint, expiration_time, p256dh, auth)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (endpoint) DO UPDATE
	SET expiration_time = EXCLUDED.expiration_time,
		p256dh = EXCLUDED.p256dh,
		auth = EXCLUDED.auth;
	`
	if _, err := db.pool.Exec(ctx, query, sub.Endpoint, sub.ExpirationTime, sub.Keys.P256dh, sub.Keys.Auth); err != nil {
		db.log.Error("Failed to save subscription", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to save subscription: %w", op, err)
	}
	db.refreshGauge(ctx)
	return nil
}

func (db *PostgresSubscriptionStore) Remove(ctx context.Context, endpoint string) error {
	const op = "storage.postgres.Remove"
	if _, err := db.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1;`, endpoint); err != nil {
		db.log.Error("Failed to delete subscription", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete subscription: %w", op, err)
	}
	db.refreshGauge(ctx)
	return nil
}

func (db *PostgresSubscriptionStore) List(ctx context.Context) ([]domain.Subscription, error) {
	const op = "storage.postgres.List"
	log := db.log.With(slog.String("op", op))
	query := `
	SELECT endpoint, expiration_time, p256dh, auth
	FROM push_subscriptions
	ORDER BY id;
	`
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Subscription, error) {
		var sub domain.Subscription
		err := row.Scan(
			&sub.Endpoint,
			&sub.ExpirationTime,
			&sub.Keys.P256dh,
			&sub.Keys.Auth,
		)
		return sub, err
	})
	if err != nil {
		log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	log.Debug("Subscriptions loaded", slog.Int("count", len(subs)))
	return subs, nil
}

func (db *PostgresSubscriptionStore) Count(ctx context.Context) (int, error) {
	const op = "storage.postgres.Count"
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT count(*) FROM push_subscriptions;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: failed to count subscriptions: %w", op, err)
	}
	return n, nil
}

func (db *PostgresSubscriptionStore) refreshGauge(ctx context.Context) {
	if n, err := db.Count(ctx); err == nil {
		metrics.Subscriptions.Set(float64(n))
	}
}
