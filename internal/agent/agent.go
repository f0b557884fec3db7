package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vesaa/hostwatch/internal/config"
	"github.com/vesaa/hostwatch/internal/models"
)

// RecentReader lists the newest records.
type RecentReader interface {
	Recent(ctx context.Context, limit int) ([]models.Record, error)
}

// RecordStore is the part of the log store the collector writes to.
type RecordStore interface {
	RecentReader
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, rec models.Record) error
}

// Collector samples the host on a fixed cadence and appends one record per tick.
type Collector struct {
	cfg     *config.Config
	store   RecordStore
	metrics MetricsSource
	prober  Prober
	logger  *zap.Logger

	// Out receives the operator lines ("Logged: ..." and the summary).
	Out io.Writer
	// Now and Sleep are swapped out in tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector wires a collector from its collaborators.
func NewCollector(cfg *config.Config, st RecordStore, ms MetricsSource, pr Prober, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		cfg:     cfg,
		store:   st,
		metrics: ms,
		prober:  pr,
		logger:  log.Named("collector"),
		Out:     os.Stdout,
		Now:     time.Now,
		Sleep:   sleepContext,
	}
}

// Sample reads utilization and probes the configured host. Only a metrics
// failure is returned; probe failures are folded into the record.
func (c *Collector) Sample(ctx context.Context) (models.Record, error) {
	ts := c.Now().Format(models.TimestampLayout)

	u, err := c.metrics.Usage(ctx)
	if err != nil {
		return models.Record{}, fmt.Errorf("sampling metrics: %w", err)
	}
	status, ms := c.prober.Probe(ctx, c.cfg.PingHost)

	return models.Record{
		Timestamp:  ts,
		CPU:        u.CPU,
		Memory:     u.Memory,
		Disk:       u.Disk,
		PingStatus: status,
		PingMS:     ms,
	}, nil
}

// Tick samples, persists and reports a single record.
func (c *Collector) Tick(ctx context.Context) (models.Record, error) {
	rec, err := c.Sample(ctx)
	if err != nil {
		return rec, err
	}
	if err := c.store.Append(ctx, rec); err != nil {
		return rec, fmt.Errorf("persisting record: %w", err)
	}
	fmt.Fprintf(c.Out, "Logged: %s\n", rec.Tuple())
	c.logger.Debug("tick",
		zap.String("timestamp", rec.Timestamp),
		zap.String("ping_status", string(rec.PingStatus)),
		zap.Float64("ping_ms", rec.PingMS))
	return rec, nil
}

// Run performs cfg.Iterations ticks with cfg.Interval between them and then
// prints the summary block. The first failing tick aborts the run. ctx is
// only observed while sleeping between ticks.
func (c *Collector) Run(ctx context.Context) error {
	if err := c.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	c.logger.Info("collector started",
		zap.String("host", describeHost(ctx)),
		zap.String("target", c.cfg.PingHost),
		zap.Int("iterations", c.cfg.Iterations),
		zap.Duration("interval", c.cfg.IntervalDuration()))

	tickCtx := context.WithoutCancel(ctx)
	for i := 0; i < c.cfg.Iterations; i++ {
		if i > 0 {
			if err := c.Sleep(ctx, c.cfg.IntervalDuration()); err != nil {
				c.logger.Info("collector interrupted", zap.Int("completed", i))
				break
			}
		}
		if _, err := c.Tick(tickCtx); err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}
	}

	return c.Summary(tickCtx)
}

// Summary prints the most recent cfg.RecentLimit records, newest first.
func (c *Collector) Summary(ctx context.Context) error {
	return PrintRecent(ctx, c.Out, c.store, c.cfg.RecentLimit)
}

// PrintRecent writes the summary block for the newest limit records to w.
func PrintRecent(ctx context.Context, w io.Writer, st RecentReader, limit int) error {
	rows, err := st.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("reading recent records: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records logged yet.")
		return nil
	}
	fmt.Fprintf(w, "Last %d entries:\n", len(rows))
	for _, r := range rows {
		fmt.Fprintln(w, r.Tuple())
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
