package billing

// Checkout session payment statuses as Stripe reports them.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// MetadataUserIDKey is the checkout-session metadata key carrying the id of
// the account the purchase should credit. It is set when the session is
// created and read back by the webhook.
const MetadataUserIDKey = "user_id"

// SessionDetails is the slice of a Stripe checkout session the
// reconciliation logic cares about. The webhook builds it from the event
// payload; the verify-session endpoint builds it from a provider lookup.
type SessionDetails struct {
	ID              string
	PaymentStatus   string
	PaymentIntentID string
	Amount          int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	PaymentMethod   string
	Metadata        map[string]string
}
