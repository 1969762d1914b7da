package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lessons-app/internal/domain/users"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrAccountUnresolvable means the session could not be matched to any
	// account: no user with the customer email, no authenticated caller and
	// no usable metadata reference. Nothing is written in that case.
	ErrAccountUnresolvable = errors.New("no account resolvable for checkout session")
)

type Outcome string

const (
	OutcomeReconciled        Outcome = "reconciled"
	OutcomeAlreadyReconciled Outcome = "already_reconciled"
	OutcomeNotCompleted      Outcome = "not_completed"
)

// Result is what a Reconcile call produced. Payment is set for the two
// reconciled outcomes; PaymentStatus carries the provider's status when the
// session was not paid.
type Result struct {
	Outcome       Outcome
	PaymentStatus string
	Payment       *Payment
}

// Ledger is the payment store as the reconciler needs it. Find returns
// (nil, nil) when no record matches. Insert must fail with a
// unique-violation error when a record for the same session or payment
// intent already exists; that failure is the only cross-process signal the
// reconciler relies on.
type Ledger interface {
	FindBySessionOrIntent(ctx context.Context, sessionID, paymentIntentID string) (*Payment, error)
	Insert(ctx context.Context, p *Payment) error
}

// Entitlements is the user store slice the reconciler needs. Find methods
// return (nil, nil) when no user matches. GrantPremium only ever sets the
// flag, never clears it.
type Entitlements interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id uint) (*users.User, error)
	GrantPremium(ctx context.Context, id uint) error
}

// Reconciler turns a checkout session the provider says is paid into exactly
// one ledger record and at most one premium grant. Both the webhook and the
// verify-session endpoint call it, usually within seconds of each other for
// the same session; no locking is used, the ledger's unique constraint
// decides the race.
type Reconciler struct {
	ledger       Ledger
	entitlements Entitlements
}

func NewReconciler(ledger Ledger, entitlements Entitlements) *Reconciler {
	return &Reconciler{ledger: ledger, entitlements: entitlements}
}

// Reconcile runs the decision steps for one session. callerID is the
// authenticated user on the verify-session path and 0 on the webhook path;
// it is only a fallback when the customer email matches no account.
// Calling it again for an already-recorded session is safe and returns
// OutcomeAlreadyReconciled with the stored record.
func (r *Reconciler) Reconcile(ctx context.Context, session SessionDetails, callerID uint) (Result, error) {
	if session.PaymentStatus != SessionPaid {
		return Result{Outcome: OutcomeNotCompleted, PaymentStatus: session.PaymentStatus}, nil
	}

	existing, err := r.ledger.FindBySessionOrIntent(ctx, session.ID, session.PaymentIntentID)
	if err != nil {
		return Result{}, fmt.Errorf("ledger lookup: %w", err)
	}
	if existing != nil {
		return Result{Outcome: OutcomeAlreadyReconciled, Payment: existing}, nil
	}

	user, err := r.resolveAccount(ctx, session, callerID)
	if err != nil {
		return Result{}, err
	}

	// Monotonic: granting an already-premium user is a no-op, so a benign
	// double grant during a race costs nothing.
	if !user.IsPremium {
		if err := r.entitlements.GrantPremium(ctx, user.ID); err != nil {
			return Result{}, fmt.Errorf("premium grant: %w", err)
		}
	}

	payment := newCompletedPayment(user, session)
	if err := r.ledger.Insert(ctx, payment); err != nil {
		if !isUniqueViolation(err) {
			return Result{}, fmt.Errorf("ledger insert: %w", err)
		}
		// Another reconciliation won between our lookup and our insert.
		// Not an error: read back the winning record and report it.
		winner, lookupErr := r.ledger.FindBySessionOrIntent(ctx, session.ID, session.PaymentIntentID)
		if lookupErr != nil {
			return Result{}, fmt.Errorf("ledger lookup after duplicate insert: %w", lookupErr)
		}
		if winner == nil {
			return Result{}, fmt.Errorf("duplicate insert for session %s but no record found", session.ID)
		}
		return Result{Outcome: OutcomeAlreadyReconciled, Payment: winner}, nil
	}

	return Result{Outcome: OutcomeReconciled, Payment: payment}, nil
}

// resolveAccount picks the account to credit: customer email first, then the
// authenticated caller, then the user id the session metadata carries. The
// same order applies on both ingress paths.
func (r *Reconciler) resolveAccount(ctx context.Context, session SessionDetails, callerID uint) (*users.User, error) {
	if session.CustomerEmail != "" {
		user, err := r.entitlements.FindByEmail(ctx, session.CustomerEmail)
		if err != nil {
			return nil, fmt.Errorf("user lookup by email: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}

	if callerID != 0 {
		user, err := r.entitlements.FindByID(ctx, callerID)
		if err != nil {
			return nil, fmt.Errorf("user lookup by id: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}

	if ref := session.Metadata[MetadataUserIDKey]; ref != "" {
		id64, err := strconv.ParseUint(ref, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid metadata %s %q", ErrAccountUnresolvable, MetadataUserIDKey, ref)
		}
		user, err := r.entitlements.FindByID(ctx, uint(id64))
		if err != nil {
			return nil, fmt.Errorf("user lookup by metadata id: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}

	return nil, fmt.Errorf("%w: session %s", ErrAccountUnresolvable, session.ID)
}

func newCompletedPayment(user *users.User, session SessionDetails) *Payment {
	var intentID *string
	if session.PaymentIntentID != "" {
		id := session.PaymentIntentID
		intentID = &id
	}

	method := session.PaymentMethod
	if method == "" {
		method = "card"
	}
	name := session.CustomerName
	if name == "" {
		name = user.Name
	}

	meta, _ := json.Marshal(map[string]any{
		"sessionMetadata": session.Metadata,
		"customerEmail":   session.CustomerEmail,
		"customerName":    session.CustomerName,
	})

	return &Payment{
		UserID:                user.ID,
		Email:                 user.Email,
		StripeSessionID:       session.ID,
		StripePaymentIntentID: intentID,
		Amount:                session.Amount,
		Currency:              session.Currency,
		Status:                PaymentStatusCompleted,
		PaymentMethod:         method,
		CustomerName:          name,
		PaymentDate:           time.Now(),
		Metadata:              meta,
	}
}

// isUniqueViolation reports whether an insert failed because a row with the
// same unique key already exists, either as GORM's translated error or as a
// raw Postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
