package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/internal/sentry/service"
	"golang-token-sentry/pkg/logger"
)

const (
	defaultSignalLimit = 50
	maxSignalLimit     = 200
	defaultStatsHours  = 24
)

// SignalHandler serves the read API over published signals.
type SignalHandler struct {
	signalRepo   repository.SignalRepository
	statsService service.StatsService
	logger       *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signalRepo repository.SignalRepository, statsService service.StatsService, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{signalRepo: signalRepo, statsService: statsService, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/signals", h.GetSignals)
	g.GET("/signals/:address", h.GetSignalByAddress)
	g.GET("/stats", h.GetStats)
}

// GetSignals godoc
// @Summary List recent signals
// @Description List recently published signals, newest first
// @Tags signals
// @Produce  json
// @Param   limit  query    int false    "Maximum rows to return (default 50, max 200)"
// @Success 200 {array} dto.SignalResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/signals [get]
func (h *SignalHandler) GetSignals(c echo.Context) error {
	limit := defaultSignalLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = parsed
	}
	if limit > maxSignalLimit {
		limit = maxSignalLimit
	}

	signals, err := h.signalRepo.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list signals", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list signals"})
	}

	out := make([]dto.SignalResponse, 0, len(signals))
	for i := range signals {
		out = append(out, toSignalResponse(&signals[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetSignalByAddress godoc
// @Summary Get a signal by token address
// @Description Get a published signal and its lifecycle results
// @Tags signals
// @Produce  json
// @Param   address  path    string true    "Token mint address"
// @Success 200 {object} dto.SignalResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/signals/{address} [get]
func (h *SignalHandler) GetSignalByAddress(c echo.Context) error {
	address := c.Param("address")

	signal, err := h.signalRepo.GetByAddress(c.Request().Context(), address)
	if err != nil {
		h.logger.Error("failed to load signal",
			logger.StringField("address", address),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load signal"})
	}
	if signal == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "signal not found"})
	}

	return c.JSON(http.StatusOK, toSignalResponse(signal))
}

// GetStats godoc
// @Summary Signal outcome stats
// @Description Aggregate win/loss stats over the trailing period
// @Tags signals
// @Produce  json
// @Param   hours  query    int false    "Trailing window in hours (default 24)"
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/stats [get]
func (h *SignalHandler) GetStats(c echo.Context) error {
	hours := defaultStatsHours
	if raw := c.QueryParam("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hours"})
		}
		hours = parsed
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	stats, err := h.statsService.GetStats(c.Request().Context(), since)
	if err != nil {
		h.logger.Error("failed to load stats", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}

	return c.JSON(http.StatusOK, dto.StatsResponse{Since: since, Stats: *stats})
}

func toSignalResponse(signal *entity.Signal) dto.SignalResponse {
	var reasons []string
	if len(signal.Reasons) > 0 {
		// Reasons were marshalled by the publisher, a decode failure
		// just leaves them empty.
		_ = json.Unmarshal(signal.Reasons, &reasons)
	}

	resp := dto.SignalResponse{
		Address:      signal.Address,
		Symbol:       signal.Symbol,
		Name:         signal.Name,
		Score:        signal.Score,
		Reasons:      reasons,
		PriceUSD:     signal.PriceUSD,
		LiquidityUSD: signal.LiquidityUSD,
		Volume24hUSD: signal.Volume24hUSD,
		MaxMilestone: signal.MaxMilestone,
		PeakGainPct:  signal.PeakGainPct,
		FinalGainPct: signal.FinalGainPct,
		PublishedAt:  signal.PublishedAt,
		ClosedAt:     signal.ClosedAt,
	}
	if signal.Outcome != nil {
		resp.Outcome = string(*signal.Outcome)
	}
	return resp
}
