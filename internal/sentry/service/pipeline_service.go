package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/adapter"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/logger"
)

const (
	defaultIntakeBufferSize = 256
	defaultEnqueueTimeout   = 2 * time.Second
	persistTimeout          = 10 * time.Second
)

// PipelineService owns the intake channel and drives one candidate from
// admission to a recorded decision.
type PipelineService interface {
	// Offer implements adapter.Sink.
	Offer(ctx context.Context, event dto.CandidateEvent) bool
	// ProcessNext blocks for the next queued candidate and decides it.
	ProcessNext(ctx context.Context)
}

type pipelineService struct {
	cfg        *config.Config
	log        *logger.Logger
	intake     chan dto.CandidateEvent
	assetRepo  repository.AssetRepository
	marketData repository.MarketDataRepository
	scoring    ScoringService
	publisher  PublisherService
	tracker    TrackerService
}

var _ adapter.Sink = (*pipelineService)(nil)

// NewPipelineService creates a new PipelineService.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	assetRepo repository.AssetRepository,
	marketData repository.MarketDataRepository,
	scoring ScoringService,
	publisher PublisherService,
	tracker TrackerService,
) PipelineService {
	bufferSize := cfg.Pipeline.IntakeBufferSize
	if bufferSize <= 0 {
		bufferSize = defaultIntakeBufferSize
	}

	return &pipelineService{
		cfg:        cfg,
		log:        log,
		intake:     make(chan dto.CandidateEvent, bufferSize),
		assetRepo:  assetRepo,
		marketData: marketData,
		scoring:    scoring,
		publisher:  publisher,
		tracker:    tracker,
	}
}

// Offer queues the event, blocking up to the enqueue timeout when the
// intake is full. A timed-out event is dropped and counted; a later
// sighting of the address will retry.
func (p *pipelineService) Offer(ctx context.Context, event dto.CandidateEvent) bool {
	timeout := p.cfg.Pipeline.EnqueueTimeout
	if timeout <= 0 {
		timeout = defaultEnqueueTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p.intake <- event:
		observability.IntakeDepth.Set(float64(len(p.intake)))
		return true
	case <-ctx.Done():
	case <-timer.C:
	}

	observability.EventsDropped.WithLabelValues(string(event.Source)).Inc()
	p.log.WarnContext(ctx, "intake full, dropping event",
		logger.StringField("address", event.Address),
		logger.StringField("source", string(event.Source)))
	return false
}

func (p *pipelineService) ProcessNext(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case event := <-p.intake:
		observability.IntakeDepth.Set(float64(len(p.intake)))

		ctxTimeout, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.DecisionTimeout)
		defer cancel()
		p.process(ctxTimeout, event)
	}
}

func (p *pipelineService) process(ctx context.Context, event dto.CandidateEvent) {
	start := time.Now()
	defer func() {
		observability.DecisionDuration.Observe(time.Since(start).Seconds())
	}()

	result, err := p.assetRepo.Admit(ctx, event)
	if err != nil {
		p.log.ErrorContext(ctx, "admission failed, dropping event",
			logger.StringField("address", event.Address),
			logger.ErrorField(err))
		return
	}
	observability.Admissions.WithLabelValues(strings.ToLower(string(result))).Inc()
	if result != repository.AdmissionAdmitted {
		p.log.DebugContext(ctx, "address not admitted",
			logger.StringField("address", event.Address),
			logger.StringField("result", string(result)))
		return
	}

	pair, err := p.marketData.GetTokenPair(ctx, event.Address)
	if err != nil {
		p.log.WarnContext(ctx, "market data unavailable, releasing address",
			logger.StringField("address", event.Address),
			logger.ErrorField(err))
		p.release(ctx, event.Address)
		return
	}
	metrics := pair.Metrics
	if event.Symbol == "" {
		event.Symbol = pair.Symbol
	}
	if event.Name == "" {
		event.Name = pair.Name
	}

	conviction := p.scoring.Score(ctx, event, metrics)
	if !conviction.GatePassed {
		p.reject(ctx, event, 0, conviction.Reasons, "safety_gate")
		return
	}
	if conviction.Score < p.cfg.Scoring.Threshold {
		p.reject(ctx, event, conviction.Score, conviction.Reasons, "below_threshold")
		return
	}

	signal, err := p.publisher.Publish(ctx, event, metrics, conviction)
	if err != nil {
		if errors.Is(err, ErrHourlyCapReached) {
			reasons := append(conviction.Reasons, "hourly publish cap reached")
			p.reject(ctx, event, conviction.Score, reasons, "hourly_cap")
			return
		}
		p.log.ErrorContext(ctx, "publish failed, releasing address",
			logger.StringField("address", event.Address),
			logger.ErrorField(err))
		p.release(ctx, event.Address)
		return
	}

	p.tracker.Track(signal, metrics)
}

// reject records the decision so the address is never evaluated again.
// The write survives pipeline shutdown.
func (p *pipelineService) reject(ctx context.Context, event dto.CandidateEvent, score float64, reasons []string, label string) {
	observability.Rejections.WithLabelValues(label).Inc()
	p.log.InfoContext(ctx, "candidate rejected",
		logger.StringField("address", event.Address),
		logger.StringField("label", label),
		logger.Float64Field("score", score))

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := p.assetRepo.FinishDecision(persistCtx, event.Address, entity.AssetStatusRejected, score, reasons); err != nil {
		p.log.ErrorContext(ctx, "failed to record rejection, releasing address",
			logger.StringField("address", event.Address),
			logger.ErrorField(err))
		p.release(ctx, event.Address)
	}
}

func (p *pipelineService) release(ctx context.Context, address string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := p.assetRepo.Release(releaseCtx, address); err != nil {
		p.log.ErrorContext(ctx, "failed to release address",
			logger.StringField("address", address),
			logger.ErrorField(err))
	}
}
