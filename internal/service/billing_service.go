package service

import (
	"context"

	"github.com/sefazor/integrations-backend/internal/apperror"
)

// SessionProvider opens hosted payment pages. Implemented by
// payment.StripeService.
type SessionProvider interface {
	CreateBillingPortalSession(ctx context.Context, customerID string) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID, customerID, successURL, cancelURL string) (string, error)
}

type BillingService struct {
	provider SessionProvider
}

// NewBillingService accepts a nil provider when STRIPE_SECRET_KEY is unset.
func NewBillingService(provider SessionProvider) *BillingService {
	return &BillingService{
		provider: provider,
	}
}

func (s *BillingService) OpenBillingPortalSession(ctx context.Context, customerID string) (string, error) {
	const op = "stripe.billing_portal"

	if s.provider == nil {
		return "", apperror.Configuration(op, "STRIPE_SECRET_KEY is not configured")
	}
	if customerID == "" {
		return "", apperror.Validation(op, "customer id is required")
	}

	url, err := s.provider.CreateBillingPortalSession(ctx, customerID)
	if err != nil {
		return "", apperror.Upstream(op, err)
	}
	return url, nil
}

func (s *BillingService) OpenCheckoutSession(ctx context.Context, priceID, customerID, successURL, cancelURL string) (string, error) {
	const op = "stripe.checkout"

	if s.provider == nil {
		return "", apperror.Configuration(op, "STRIPE_SECRET_KEY is not configured")
	}

	url, err := s.provider.CreateCheckoutSession(ctx, priceID, customerID, successURL, cancelURL)
	if err != nil {
		return "", apperror.Upstream(op, err)
	}
	return url, nil
}
