package audit

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultBufferSize is the Writer queue length.
const DefaultBufferSize = 256

// Writer queues entries and writes them serially in the background.
// Record never blocks. When the queue is full the entry is dropped.
type Writer struct {
	repo   Repository
	logger *slog.Logger
	ch     chan *Entry

	wg       sync.WaitGroup
	stopOnce sync.Once
	cancel   context.CancelFunc
}

// NewWriter creates a Writer. Call Start before Record.
func NewWriter(repo Repository, logger *slog.Logger, buffer int) *Writer {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{repo: repo, logger: logger, ch: make(chan *Entry, buffer)}
}

// Start launches the drain goroutine.
func (w *Writer) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.drain(ctx)
	}()
}

// Record enqueues an entry with Source "api".
func (w *Writer) Record(action, entityType, entityID, accountID string, details map[string]any) {
	if w == nil {
		return
	}
	entry := &Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		AccountID:  accountID,
		Source:     "api",
		Details:    details,
	}

	select {
	case w.ch <- entry:
	default:
		w.logger.Warn("audit queue full, dropping entry", "action", action)
	}
}

// Stop flushes queued entries and waits for the drain goroutine.
func (w *Writer) Stop() {
	if w == nil {
		return
	}
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
	})
}

func (w *Writer) drain(ctx context.Context) {
	for {
		select {
		case entry := <-w.ch:
			w.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-w.ch:
					w.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) write(entry *Entry) {
	if err := w.repo.Create(context.Background(), entry); err != nil {
		w.logger.Error("audit write failed", "action", entry.Action, "error", err)
	}
}
