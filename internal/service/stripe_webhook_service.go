package service

import (
	"context"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/apperror"
)

type EventProcessor interface {
	Process(ctx context.Context, event *stripe.Event) error
}

type NopEventProcessor struct{}

func (NopEventProcessor) Process(context.Context, *stripe.Event) error { return nil }

type StripeWebhookService struct {
	secret    string
	processor EventProcessor
	logger    *zap.Logger
}

func NewStripeWebhookService(secret string, processor EventProcessor, logger *zap.Logger) *StripeWebhookService {
	if processor == nil {
		processor = NopEventProcessor{}
	}
	return &StripeWebhookService{
		secret:    secret,
		processor: processor,
		logger:    logger.Named("stripe_webhook"),
	}
}

// HandleEvent verifies the Stripe-Signature header before anything in the
// payload is trusted.
func (s *StripeWebhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	const op = "stripe.webhook"

	if s.secret == "" {
		return apperror.Configuration(op, "STRIPE_WEBHOOK_SECRET is not configured")
	}

	// API version mismatch'i ignore et
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.secret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		s.logger.Warn("Stripe webhook signature rejected", zap.Error(err))
		return apperror.Validation(op, "invalid webhook signature")
	}

	s.logger.Info("Stripe webhook received",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)

	if err := s.processor.Process(ctx, &event); err != nil {
		return apperror.Internal(op, err)
	}

	return nil
}
