package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/apperror"
	"github.com/sefazor/integrations-backend/internal/models"
	"github.com/sefazor/integrations-backend/internal/service"
	"github.com/sefazor/integrations-backend/pkg/zapier"
)

type ZapierHandler struct {
	zapierService      *service.ZapierService
	exposeErrorDetails bool
	logger             *zap.Logger
}

func NewZapierHandler(zapierService *service.ZapierService, exposeErrorDetails bool, logger *zap.Logger) *ZapierHandler {
	return &ZapierHandler{
		zapierService:      zapierService,
		exposeErrorDetails: exposeErrorDetails,
		logger:             logger.Named("zapier"),
	}
}

// TestConfig reports whether the receiver has its shared secret.
// GET /api/zapier/test
func (h *ZapierHandler) TestConfig(c *fiber.Ctx) error {
	if err := h.zapierService.CheckConfigured(); err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Zapier webhook is not configured", err)
	}

	return c.JSON(models.SuccessResponse("Zapier webhook endpoint is configured"))
}

// ReceiveWebhook
// POST /api/zapier/webhook
func (h *ZapierHandler) ReceiveWebhook(c *fiber.Ctx) error {
	err := h.zapierService.Receive(c.UserContext(), c.Get(zapier.SecretHeader), c.Body())
	if err == nil {
		return c.JSON(models.MessageResponse{Message: "Webhook received successfully!"})
	}

	if apperror.KindOf(err) != apperror.KindAuthorization {
		h.logger.Error("Zapier webhook processing failed", zap.Error(err))
	}

	// Cause details never leave this endpoint.
	return c.Status(apperror.Status(err)).JSON(models.MessageResponse{
		Message: apperror.PublicMessage(err, false),
	})
}

// SendWebhook forwards the request body to the configured Zapier catch hook.
// POST /api/zapier/send
func (h *ZapierHandler) SendWebhook(c *fiber.Ctx) error {
	if err := h.zapierService.Send(c.UserContext(), c.Body()); err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Zapier webhook send failed", err)
	}

	return c.JSON(models.SuccessResponse("Webhook sent to Zapier"))
}
