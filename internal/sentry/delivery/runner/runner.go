package runner

import (
	"context"
	"sync"
	"time"

	"golang-token-sentry/internal/sentry/adapter"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/service"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/utils"
)

// Runner owns every long-lived goroutine of the signal service: the
// ingestion adapters, the pipeline consumers, the tracker sweep and the
// narrative refresh.
type Runner struct {
	cfg       *config.Config
	logger    *logger.Logger
	pipeline  service.PipelineService
	tracker   service.TrackerService
	narrative service.NarrativeService
	adapters  []adapter.SourceAdapter
	stopChan  chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a new Runner.
func New(
	cfg *config.Config,
	log *logger.Logger,
	pipeline service.PipelineService,
	tracker service.TrackerService,
	narrative service.NarrativeService,
	adapters []adapter.SourceAdapter,
) *Runner {
	return &Runner{
		cfg:       cfg,
		logger:    log,
		pipeline:  pipeline,
		tracker:   tracker,
		narrative: narrative,
		adapters:  adapters,
		stopChan:  make(chan struct{}),
	}
}

// Start launches every worker. It returns immediately; Stop waits for
// them.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.logger.Info("runner started")

	consumers := r.cfg.Pipeline.Consumers
	if consumers <= 0 {
		consumers = 1
	}
	for i := 0; i < consumers; i++ {
		r.registerConsumer(ctx, i)
	}

	for _, a := range r.adapters {
		r.registerAdapter(ctx, a)
	}

	r.registerTickerHandler(ctx, r.tracker.Sweep, r.cfg.Tracker.SweepInterval, "tracker-sweep")
	r.registerTickerHandler(ctx, r.narrative.Refresh, r.cfg.Narrative.RefreshInterval, "narrative-refresh")

	// The heat map is empty until the first refresh, so warm it now
	// instead of waiting a full interval.
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		ctxTimeout, cancel := context.WithTimeout(ctx, r.cfg.Narrative.RefreshInterval)
		defer cancel()
		r.narrative.Refresh(ctxTimeout)
	})
}

// registerConsumer runs one pipeline consumer loop. ProcessNext blocks on
// the intake channel and bounds each decision itself.
func (r *Runner) registerConsumer(ctx context.Context, id int) {
	r.logger.Info("registering pipeline consumer", logger.IntField("consumer", id))
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("pipeline consumer stopping", logger.IntField("consumer", id))
				return
			case <-r.stopChan:
				r.logger.Info("pipeline consumer stopping", logger.IntField("consumer", id))
				return
			default:
				r.pipeline.ProcessNext(ctx)
			}
		}
	})
}

// registerAdapter runs one ingestion adapter until the context ends. The
// adapters own their reconnect and poll loops.
func (r *Runner) registerAdapter(ctx context.Context, a adapter.SourceAdapter) {
	r.logger.Info("registering source adapter", logger.StringField("kind", a.Kind()))
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		a.Run(ctx)
		r.logger.Info("source adapter stopped", logger.StringField("kind", a.Kind()))
	})
}

func (r *Runner) registerTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, name string) {
	r.logger.Info("registering ticker handler",
		logger.StringField("name", name),
		logger.DurationField("interval", interval))
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, interval)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				r.logger.Info("ticker handler stopping", logger.StringField("name", name))
				return
			case <-r.stopChan:
				r.logger.Info("ticker handler stopping", logger.StringField("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down every worker.
func (r *Runner) Stop() {
	close(r.stopChan)
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("runner stopped")
}
