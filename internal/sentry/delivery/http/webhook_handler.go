package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-token-sentry/internal/sentry/adapter"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/pkg/logger"
)

// WebhookHandler receives Helius enhanced-transaction deliveries and
// hands them to the webhook adapter.
type WebhookHandler struct {
	cfg     *config.Config
	logger  *logger.Logger
	webhook *adapter.HeliusWebhook
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(cfg *config.Config, logger *logger.Logger, webhook *adapter.HeliusWebhook) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, logger: logger, webhook: webhook}
}

// RegisterRoutes registers the webhook routes to the Echo group.
func (h *WebhookHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/helius", h.ReceiveHelius)
}

// ReceiveHelius godoc
// @Summary Receive Helius transactions
// @Description Accepts one webhook delivery of enhanced transactions, sent as a JSON array or a single object
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   transactions  body    []dto.HeliusTransaction   true    "Enhanced transactions"
// @Success 200 {object} dto.WebhookAck
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /webhooks/helius [post]
func (h *WebhookHandler) ReceiveHelius(c echo.Context) error {
	if want := h.cfg.Helius.AuthHeader; want != "" && c.Request().Header.Get("Authorization") != want {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook authorization"})
	}
	if h.webhook == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "webhook ingestion not ready"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read webhook body"})
	}

	txs, err := decodeDeliveries(body)
	if err != nil {
		h.logger.Warn("undecodable webhook delivery", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid webhook payload"})
	}

	accepted := h.webhook.Enqueue(c.Request().Context(), txs)
	return c.JSON(http.StatusOK, dto.WebhookAck{Accepted: accepted})
}

// decodeDeliveries accepts the array form Helius normally sends, the
// single-object form and an empty keep-alive body.
func decodeDeliveries(body []byte) ([]dto.HeliusTransaction, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var txs []dto.HeliusTransaction
	if err := json.Unmarshal(body, &txs); err == nil {
		return txs, nil
	}

	var tx dto.HeliusTransaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, err
	}
	return []dto.HeliusTransaction{tx}, nil
}
