package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspire/backend/internal/pkg/logger"
)

const (
	// debounceWindow collects events for the same model before recalculating
	debounceWindow = 1 * time.Second

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ReviewEvent is the wire shape published by the review service
type ReviewEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model"`
}

// ScoreWorker processes review events and updates product average scores
// asynchronously. Events for the same model within the debounce window
// collapse into a single recalculation.
type ScoreWorker struct {
	calculator *Calculator
	logger     *logger.Logger

	mu             sync.Mutex
	pendingUpdates map[string]*pendingUpdate
	shutdownCh     chan struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

type pendingUpdate struct {
	model     string
	timestamp time.Time
	timer     *time.Timer
}

// NewScoreWorker creates a new score worker
func NewScoreWorker(calculator *Calculator, logger *logger.Logger) *ScoreWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &ScoreWorker{
		calculator:     calculator,
		logger:         logger,
		pendingUpdates: make(map[string]*pendingUpdate),
		shutdownCh:     make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// HandleEvent processes one review event
func (w *ScoreWorker) HandleEvent(data []byte) error {
	var event ReviewEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal review event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"event_type": event.EventType,
		"model":      event.Model,
		"timestamp":  event.Timestamp,
	}).Info("Received review event")

	// A global purge carries no model; reset the whole catalog instead
	if event.Model == "" {
		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		defer cancel()
		return w.calculator.ResetAll(ctx)
	}

	w.scheduleUpdate(event.Model, event.Timestamp)
	return nil
}

// scheduleUpdate debounces: repeated events for one model within the window
// produce a single database update.
func (w *ScoreWorker) scheduleUpdate(model string, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingUpdates[model]
	if found {
		if timestamp.Before(existing.timestamp) {
			w.logger.Debugf("Ignoring stale event for model %s", model)
			return
		}
		if !existing.timer.Stop() {
			// Old timer already fired; its processUpdate owns the existing
			// WaitGroup slot, so the replacement timer needs its own
			w.wg.Add(1)
		}
		w.logger.Debugf("Debouncing: resetting timer for model %s", model)
	} else {
		w.wg.Add(1)
	}

	timer := time.AfterFunc(debounceWindow, func() {
		w.processUpdate(model)
	})

	w.pendingUpdates[model] = &pendingUpdate{
		model:     model,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processUpdate executes the score calculation with retry and backoff
func (w *ScoreWorker) processUpdate(model string) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingUpdates, model)
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"model": model,
	}).Info("Processing score update")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]interface{}{
				"model":      model,
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying score update")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.calculator.CalculateAndUpdate(ctx, model)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]interface{}{
			"model":   model,
			"attempt": attempt + 1,
		}).Error("Failed to update score", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"model":       model,
		"max_retries": maxRetries,
	}).Error("Score update failed after all retries", lastErr)
}

// Shutdown cancels pending timers and waits for in-flight updates
func (w *ScoreWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down score worker...")

	close(w.shutdownCh)

	w.mu.Lock()
	for model, pending := range w.pendingUpdates {
		if pending.timer.Stop() {
			// Timer had not fired yet; run the update now instead of dropping it
			go w.processUpdate(model)
		}
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Score worker shut down cleanly")
	case <-ctx.Done():
		w.cancel()
		w.logger.Warn("Score worker shutdown timed out, cancelling in-flight updates")
	}

	w.cancel()
	return nil
}
