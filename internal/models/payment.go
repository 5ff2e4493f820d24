package models

type CreatePortalSessionRequest struct {
	CustomerID string `json:"customer_id" validate:"required,stripe_id=cus"`
}

type CreateCheckoutSessionRequest struct {
	PriceID    string `json:"price_id" validate:"required,stripe_id=price"`
	CustomerID string `json:"customer_id" validate:"required,stripe_id=cus"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// SessionLink is the hosted Stripe page the client should be redirected to.
type SessionLink struct {
	URL string `json:"url"`
}
