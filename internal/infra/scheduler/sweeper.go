package scheduler

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	sweepBatchSize = 500
	sweepTimeout   = 2 * time.Minute
)

// Expirer is satisfied by commands.NegotiationCommands.
type Expirer interface {
	ExpireStale(ctx context.Context, limit int) (int, error)
}

// NegotiationSweeper periodically expires negotiations nobody has read since
// their deadline passed. Reads expire lazily anyway; the sweep only keeps
// stored statuses tidy.
type NegotiationSweeper struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string
	logger  *slog.Logger
}

func NewNegotiationSweeper(expirer Expirer, spec string, logger *slog.Logger) *NegotiationSweeper {
	cl := cronLogger{logger: logger}
	return &NegotiationSweeper{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		expirer: expirer,
		spec:    spec,
		logger:  logger,
	}
}

func (s *NegotiationSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Sweep); err != nil {
		return errs.Wrapf(err, "failed to schedule negotiation sweep %q", s.spec)
	}
	s.cron.Start()
	s.logger.Info("negotiation sweep scheduled", "spec", s.spec)
	return nil
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *NegotiationSweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("negotiation sweep stopped")
}

// Sweep drains stale negotiations batch by batch.
func (s *NegotiationSweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	total := 0
	for {
		n, err := s.expirer.ExpireStale(ctx, sweepBatchSize)
		total += n
		if err != nil {
			s.logger.Error("negotiation sweep failed", "expired", total, "error", err.Error())
			return
		}
		if n < sweepBatchSize {
			break
		}
	}

	s.logger.Info("negotiation sweep finished",
		"expired", total,
		"duration_ms", time.Since(start).Milliseconds())
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err.Error())...)
}
