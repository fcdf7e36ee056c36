package service

import (
	"context"
	"sync"
	"time"

	"github.com/dcraven/sift/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultDispatchInterval = 30 * time.Second
	defaultDispatchBatch    = 50
	defaultDispatchRPS      = 10
	defaultCallTimeout      = 5 * time.Second
)

// DispatcherService drains the sync outbox against the remote system of
// record in the background. Failed dispatches increment the entry's attempt
// counter; entries at the retry cap are parked (kept, with their last error)
// rather than dropped, so no local action is ever silently lost.
type DispatcherService struct {
	outbox domain.OutboxStore
	remote domain.RemoteClient
	logger *zap.Logger

	interval    time.Duration
	batchSize   int
	callTimeout time.Duration
	limiter     *rate.Limiter

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewDispatcherService(outbox domain.OutboxStore, remote domain.RemoteClient, logger *zap.Logger) *DispatcherService {
	return &DispatcherService{
		outbox:      outbox,
		remote:      remote,
		logger:      logger,
		interval:    defaultDispatchInterval,
		batchSize:   defaultDispatchBatch,
		callTimeout: defaultCallTimeout,
		limiter:     rate.NewLimiter(rate.Limit(defaultDispatchRPS), 1),
		stopCh:      make(chan struct{}),
	}
}

func (s *DispatcherService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *DispatcherService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

func (s *DispatcherService) SetCallTimeout(d time.Duration) {
	if d > 0 {
		s.callTimeout = d
	}
}

func (s *DispatcherService) SetDispatchRate(rps float64) {
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Start runs the dispatcher on a periodic schedule in a background goroutine.
func (s *DispatcherService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("outbox dispatcher started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.interval)
				if _, err := s.Drain(ctx, s.batchSize); err != nil {
					s.logger.Error("outbox drain failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("outbox dispatcher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the dispatcher.
func (s *DispatcherService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Drain dispatches up to batchSize pending entries. Entries enqueued while a
// drain is running are picked up on the next pass. Each remote call gets its
// own timeout; a timeout counts as a failed attempt like any other error.
// Returns the number of entries successfully dispatched.
func (s *DispatcherService) Drain(ctx context.Context, batchSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batchSize <= 0 {
		batchSize = s.batchSize
	}

	entries, err := s.outbox.ListDispatchable(ctx, domain.MaxDispatchAttempts, batchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, entry := range entries {
		if err := s.limiter.Wait(ctx); err != nil {
			return dispatched, err
		}

		if err := s.dispatch(ctx, entry); err != nil {
			s.logger.Warn("outbox dispatch attempt failed",
				zap.String("entity_id", entry.EntityID),
				zap.String("action", string(entry.Action)),
				zap.Int("attempts", entry.Attempts+1),
				zap.Error(err),
			)
			if err := s.outbox.RecordFailure(ctx, entry.ID, err.Error()); err != nil {
				return dispatched, err
			}
			continue
		}

		if err := s.outbox.Remove(ctx, entry.ID); err != nil {
			return dispatched, err
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *DispatcherService) dispatch(ctx context.Context, entry domain.OutboxEntry) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	switch entry.Action {
	case domain.ActionViewed:
		return s.remote.SendViewed(callCtx, entry.EntityType, entry.EntityID)
	case domain.ActionLike:
		return s.remote.SendStatus(callCtx, entry.EntityType, entry.EntityID, true, false)
	default:
		return s.remote.SendStatus(callCtx, entry.EntityType, entry.EntityID, false, true)
	}
}
