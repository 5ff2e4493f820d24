package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// BillingPortalReturnPath is appended to the app base URL when the customer
// leaves the billing portal.
const BillingPortalReturnPath = "/dashboard/settings/billing"

var ErrEmptyCustomerID = errors.New("customer id is required")

type checkoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type portalSessionCreator interface {
	New(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

type StripeService struct {
	checkoutSessions checkoutSessionCreator
	portalSessions   portalSessionCreator
	returnURL        string
}

// NewStripeService builds a client scoped to cfg.SecretKey instead of setting
// the package level stripe.Key. The API version is the one pinned by the SDK
// (stripe.APIVersion).
func NewStripeService(cfg StripeConfig) *StripeService {
	sc := client.New(cfg.SecretKey, nil)
	return newStripeService(sc.CheckoutSessions, sc.BillingPortalSessions, cfg.BaseURL)
}

func newStripeService(checkout checkoutSessionCreator, portal portalSessionCreator, baseURL string) *StripeService {
	return &StripeService{
		checkoutSessions: checkout,
		portalSessions:   portal,
		returnURL:        baseURL + BillingPortalReturnPath,
	}
}

// CreateBillingPortalSession opens a hosted billing portal session and
// returns its URL.
func (s *StripeService) CreateBillingPortalSession(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", ErrEmptyCustomerID
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.returnURL),
	}
	params.Context = ctx

	sess, err := s.portalSessions.New(params)
	if err != nil {
		return "", err
	}

	return sess.URL, nil
}

// CreateCheckoutSession opens a subscription checkout for a single price.
// No idempotency key is sent, so a retried call creates a second session.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, priceID, customerID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:            stripe.String(customerID),
		Mode:                stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		AllowPromotionCodes: stripe.Bool(true),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	sess, err := s.checkoutSessions.New(params)
	if err != nil {
		return "", err
	}

	return sess.URL, nil
}
