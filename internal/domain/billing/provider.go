package billing

import "context"

// CreateSessionParams describes a lifetime-premium checkout to open with the
// payment provider.
type CreateSessionParams struct {
	Amount        int64
	Currency      string
	ProductName   string
	ProductDesc   string
	CustomerEmail string
	Metadata      map[string]string
	ClientRef     string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is what the provider returns when a session is opened.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider abstracts the external checkout service (Stripe). The
// webhook path never needs RetrieveSession because the event payload already
// carries the session; the verify-session path always does.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (SessionDetails, error)
}
