package worker

import (
	"context"
	"log/slog"
	"time"
)

// Task определяет периодическую задачу, выполняемую воркером.
type Task interface {
	Check(ctx context.Context) error
}

// Worker периодически выполняет задачу в отдельной горутине.
// Запуски выполняются последовательно и не перекрываются; первый запуск
// происходит через один интервал после Start.
type Worker struct {
	name     string
	task     Task
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// Option настраивает Worker.
type Option func(*Worker)

// WithTimeout ограничивает время одного запуска задачи.
func WithTimeout(d time.Duration) Option {
	return func(w *Worker) { w.timeout = d }
}

// New создает воркер для задачи с указанным интервалом.
func New(name string, task Task, interval time.Duration, log *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		name:     name,
		task:     task,
		interval: interval,
		log:      log.With(slog.String("component", "worker"), slog.String("worker", name)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start запускает цикл воркера.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop отменяет контекст и ждёт завершения текущего запуска.
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// Interval возвращает интервал запуска задачи.
func (w *Worker) Interval() time.Duration { return w.interval }

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	w.log.Info("Worker started", slog.String("interval", w.interval.String()))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := w.task.Check(ctx); err != nil {
		w.log.Error("Task failed", slog.Any("error", err), slog.Duration("duration", time.Since(start)))
		return
	}
	w.log.Debug("Task completed", slog.Duration("duration", time.Since(start)))
}
