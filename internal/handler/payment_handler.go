package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/middleware"
	"github.com/sefazor/integrations-backend/internal/models"
	"github.com/sefazor/integrations-backend/internal/service"
	"github.com/sefazor/integrations-backend/pkg/utils"
)

type PaymentHandler struct {
	billingService       *service.BillingService
	stripeWebhookService *service.StripeWebhookService
	validator            *utils.Validator
	exposeErrorDetails   bool
	logger               *zap.Logger
}

func NewPaymentHandler(
	billingService *service.BillingService,
	stripeWebhookService *service.StripeWebhookService,
	validator *utils.Validator,
	exposeErrorDetails bool,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		billingService:       billingService,
		stripeWebhookService: stripeWebhookService,
		validator:            validator,
		exposeErrorDetails:   exposeErrorDetails,
		logger:               logger.Named("payment"),
	}
}

// CreatePortalSession
// POST /api/stripe/portal
func (h *PaymentHandler) CreatePortalSession(c *fiber.Ctx) error {
	var req models.CreatePortalSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.Message(err)))
	}

	url, err := h.billingService.OpenBillingPortalSession(c.UserContext(), req.CustomerID)
	if err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Failed to create billing portal session", err)
	}

	h.logger.Info("billing portal session created",
		zap.Any("user_id", c.Locals(middleware.LocalUserID)),
		zap.String("customer_id", req.CustomerID),
	)

	return c.JSON(models.SessionLink{URL: url})
}

// CreateCheckoutSession
// POST /api/stripe/checkout
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.Message(err)))
	}

	url, err := h.billingService.OpenCheckoutSession(c.UserContext(), req.PriceID, req.CustomerID, req.SuccessURL, req.CancelURL)
	if err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Failed to create checkout session", err)
	}

	h.logger.Info("checkout session created",
		zap.Any("user_id", c.Locals(middleware.LocalUserID)),
		zap.String("customer_id", req.CustomerID),
		zap.String("price_id", req.PriceID),
	)

	return c.JSON(models.SessionLink{URL: url})
}

// HandleStripeWebhook
// POST /api/stripe/webhook
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	if err := h.stripeWebhookService.HandleEvent(c.UserContext(), c.Body(), c.Get("Stripe-Signature")); err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Stripe webhook failed", err)
	}

	return c.SendStatus(fiber.StatusOK)
}
