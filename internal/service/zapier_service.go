package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/apperror"
)

// WebhookProcessor receives every authenticated Zapier payload after it has
// been logged.
type WebhookProcessor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// NopWebhookProcessor accepts payloads without acting on them.
type NopWebhookProcessor struct{}

func (NopWebhookProcessor) Process(context.Context, json.RawMessage) error { return nil }

type ZapierSender interface {
	Configured() bool
	Send(ctx context.Context, payload interface{}) error
}

type ZapierService struct {
	secret    string
	processor WebhookProcessor
	sender    ZapierSender
	logger    *zap.Logger
}

func NewZapierService(secret string, processor WebhookProcessor, sender ZapierSender, logger *zap.Logger) *ZapierService {
	if processor == nil {
		processor = NopWebhookProcessor{}
	}
	return &ZapierService{
		secret:    secret,
		processor: processor,
		sender:    sender,
		logger:    logger.Named("zapier"),
	}
}

// CheckConfigured only looks at the shared secret; it does not exercise the
// receiver.
func (s *ZapierService) CheckConfigured() error {
	if s.secret == "" {
		return apperror.Configuration("zapier.config", "ZAPIER_WEBHOOK_SECRET is not configured")
	}
	return nil
}

// Receive authenticates an inbound webhook by its shared secret header,
// decodes the JSON body and hands it to the processor.
func (s *ZapierService) Receive(ctx context.Context, providedSecret string, body []byte) error {
	const op = "zapier.receive"

	if err := s.CheckConfigured(); err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(providedSecret), []byte(s.secret)) != 1 {
		s.logger.Warn("Zapier webhook rejected", zap.Bool("secret_present", providedSecret != ""))
		return apperror.Unauthorized(op)
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperror.Internal(op, err)
	}

	s.logger.Info("Zapier webhook received", zap.Any("payload", payload))

	// body may be a request buffer that is reused after the handler returns
	raw := make(json.RawMessage, len(body))
	copy(raw, body)

	if err := s.processor.Process(ctx, raw); err != nil {
		return apperror.Internal(op, err)
	}

	return nil
}

// Send forwards a JSON document to the configured Zapier catch hook.
func (s *ZapierService) Send(ctx context.Context, body []byte) error {
	const op = "zapier.send"

	if s.sender == nil || !s.sender.Configured() {
		return apperror.Configuration(op, "ZAPIER_WEBHOOK_URL is not configured")
	}
	if !json.Valid(body) {
		return apperror.Validation(op, "request body must be valid JSON")
	}

	if err := s.sender.Send(ctx, json.RawMessage(body)); err != nil {
		return apperror.Upstream(op, err)
	}

	s.logger.Info("Zapier webhook sent", zap.Int("bytes", len(body)))
	return nil
}
