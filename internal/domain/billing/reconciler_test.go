package billing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lessons-app/internal/domain/users"

	"gorm.io/gorm"
)

// fakeLedger enforces the same uniqueness the real table does: an insert for
// a session or payment intent already present fails with a duplicate error.
type fakeLedger struct {
	mu       sync.Mutex
	payments []*Payment
	inserts  int

	findErr   error
	insertErr error
}

func (l *fakeLedger) FindBySessionOrIntent(_ context.Context, sessionID, paymentIntentID string) (*Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.findErr != nil {
		return nil, l.findErr
	}
	for _, p := range l.payments {
		if p.StripeSessionID == sessionID {
			return p, nil
		}
		if paymentIntentID != "" && p.StripePaymentIntentID != nil && *p.StripePaymentIntentID == paymentIntentID {
			return p, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Insert(_ context.Context, p *Payment) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inserts++
	if l.insertErr != nil {
		return l.insertErr
	}
	for _, existing := range l.payments {
		if existing.StripeSessionID == p.StripeSessionID {
			return gorm.ErrDuplicatedKey
		}
		if p.StripePaymentIntentID != nil && existing.StripePaymentIntentID != nil &&
			*existing.StripePaymentIntentID == *p.StripePaymentIntentID {
			return gorm.ErrDuplicatedKey
		}
	}
	l.payments = append(l.payments, p)
	return nil
}

type fakeEntitlements struct {
	mu     sync.Mutex
	users  map[uint]*users.User
	grants int
}

func newFakeEntitlements(us ...*users.User) *fakeEntitlements {
	m := make(map[uint]*users.User, len(us))
	for _, u := range us {
		m[u.ID] = u
	}
	return &fakeEntitlements{users: m}
}

func (e *fakeEntitlements) FindByEmail(_ context.Context, email string) (*users.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range e.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (e *fakeEntitlements) FindByID(_ context.Context, id uint) (*users.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (e *fakeEntitlements) GrantPremium(_ context.Context, id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grants++
	if u, ok := e.users[id]; ok {
		u.IsPremium = true
	}
	return nil
}

func paidSession() SessionDetails {
	return SessionDetails{
		ID:              "sess_1",
		PaymentStatus:   SessionPaid,
		PaymentIntentID: "pi_1",
		Amount:          150000,
		Currency:        "bdt",
		CustomerEmail:   "alice@example.com",
		CustomerName:    "Alice",
		PaymentMethod:   "card",
		Metadata:        map[string]string{MetadataUserIDKey: "7"},
	}
}

func TestReconcileUnpaidSession(t *testing.T) {
	ledger := &fakeLedger{}
	ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com"})
	r := NewReconciler(ledger, ents)

	session := paidSession()
	session.PaymentStatus = SessionUnpaid

	result, err := r.Reconcile(context.Background(), session, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeNotCompleted {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeNotCompleted)
	}
	if result.PaymentStatus != SessionUnpaid {
		t.Errorf("payment status = %q, want %q", result.PaymentStatus, SessionUnpaid)
	}
	if ledger.inserts != 0 {
		t.Errorf("ledger inserts = %d, want 0", ledger.inserts)
	}
	if ents.grants != 0 {
		t.Errorf("premium grants = %d, want 0", ents.grants)
	}
}

func TestReconcilePaidSession(t *testing.T) {
	ledger := &fakeLedger{}
	ents := newFakeEntitlements(&users.User{ID: 7, Name: "Alice", Email: "alice@example.com"})
	r := NewReconciler(ledger, ents)

	result, err := r.Reconcile(context.Background(), paidSession(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeReconciled {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeReconciled)
	}

	p := result.Payment
	if p == nil {
		t.Fatal("expected a payment record")
	}
	if p.UserID != 7 {
		t.Errorf("user id = %d, want 7", p.UserID)
	}
	if p.StripeSessionID != "sess_1" {
		t.Errorf("session id = %q, want sess_1", p.StripeSessionID)
	}
	if p.StripePaymentIntentID == nil || *p.StripePaymentIntentID != "pi_1" {
		t.Errorf("payment intent = %v, want pi_1", p.StripePaymentIntentID)
	}
	if p.Amount != 150000 || p.Currency != "bdt" {
		t.Errorf("amount/currency = %d/%q, want 150000/bdt", p.Amount, p.Currency)
	}
	if p.Status != PaymentStatusCompleted {
		t.Errorf("status = %q, want %q", p.Status, PaymentStatusCompleted)
	}

	if ents.grants != 1 {
		t.Errorf("premium grants = %d, want 1", ents.grants)
	}
	if !ents.users[7].IsPremium {
		t.Error("user should be premium after reconcile")
	}
	if len(ledger.payments) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(ledger.payments))
	}
}

func TestReconcileAlreadyRecorded(t *testing.T) {
	intent := "pi_1"
	existing := &Payment{
		UserID:                7,
		StripeSessionID:       "sess_1",
		StripePaymentIntentID: &intent,
		Status:                PaymentStatusCompleted,
	}

	t.Run("matched by session id", func(t *testing.T) {
		ledger := &fakeLedger{payments: []*Payment{existing}}
		ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com", IsPremium: true})
		r := NewReconciler(ledger, ents)

		result, err := r.Reconcile(context.Background(), paidSession(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Outcome != OutcomeAlreadyReconciled {
			t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeAlreadyReconciled)
		}
		if result.Payment != existing {
			t.Error("expected the stored record back")
		}
		if ledger.inserts != 0 || ents.grants != 0 {
			t.Errorf("inserts/grants = %d/%d, want 0/0", ledger.inserts, ents.grants)
		}
	})

	t.Run("matched by payment intent", func(t *testing.T) {
		ledger := &fakeLedger{payments: []*Payment{existing}}
		ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com", IsPremium: true})
		r := NewReconciler(ledger, ents)

		// Same underlying payment surfaced under a different session id.
		session := paidSession()
		session.ID = "sess_other"

		result, err := r.Reconcile(context.Background(), session, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Outcome != OutcomeAlreadyReconciled {
			t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeAlreadyReconciled)
		}
	})
}

func TestReconcileAccountResolution(t *testing.T) {
	t.Run("caller fallback when email unknown", func(t *testing.T) {
		ledger := &fakeLedger{}
		ents := newFakeEntitlements(&users.User{ID: 42, Email: "someone@else.com"})
		r := NewReconciler(ledger, ents)

		session := paidSession()
		session.Metadata = nil

		result, err := r.Reconcile(context.Background(), session, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Payment.UserID != 42 {
			t.Errorf("credited user = %d, want 42", result.Payment.UserID)
		}
	})

	t.Run("metadata fallback when email and caller unknown", func(t *testing.T) {
		ledger := &fakeLedger{}
		ents := newFakeEntitlements(&users.User{ID: 7, Email: "someone@else.com"})
		r := NewReconciler(ledger, ents)

		result, err := r.Reconcile(context.Background(), paidSession(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Payment.UserID != 7 {
			t.Errorf("credited user = %d, want 7", result.Payment.UserID)
		}
	})

	t.Run("email wins over caller", func(t *testing.T) {
		ledger := &fakeLedger{}
		ents := newFakeEntitlements(
			&users.User{ID: 7, Email: "alice@example.com"},
			&users.User{ID: 42, Email: "someone@else.com"},
		)
		r := NewReconciler(ledger, ents)

		result, err := r.Reconcile(context.Background(), paidSession(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Payment.UserID != 7 {
			t.Errorf("credited user = %d, want 7", result.Payment.UserID)
		}
	})

	t.Run("nothing resolves", func(t *testing.T) {
		ledger := &fakeLedger{}
		ents := newFakeEntitlements()
		r := NewReconciler(ledger, ents)

		_, err := r.Reconcile(context.Background(), paidSession(), 0)
		if !errors.Is(err, ErrAccountUnresolvable) {
			t.Fatalf("error = %v, want ErrAccountUnresolvable", err)
		}
		if ledger.inserts != 0 {
			t.Errorf("ledger inserts = %d, want 0", ledger.inserts)
		}
	})

	t.Run("garbage metadata id", func(t *testing.T) {
		ledger := &fakeLedger{}
		ents := newFakeEntitlements()
		r := NewReconciler(ledger, ents)

		session := paidSession()
		session.Metadata = map[string]string{MetadataUserIDKey: "not-a-number"}

		_, err := r.Reconcile(context.Background(), session, 0)
		if !errors.Is(err, ErrAccountUnresolvable) {
			t.Fatalf("error = %v, want ErrAccountUnresolvable", err)
		}
	})
}

func TestReconcileStoreFailures(t *testing.T) {
	t.Run("ledger lookup failure is fatal", func(t *testing.T) {
		ledger := &fakeLedger{findErr: errors.New("connection refused")}
		ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com"})
		r := NewReconciler(ledger, ents)

		_, err := r.Reconcile(context.Background(), paidSession(), 0)
		if err == nil {
			t.Fatal("expected a lookup failure to surface")
		}
		if errors.Is(err, ErrAccountUnresolvable) {
			t.Errorf("error = %v, must not be classified as unresolvable", err)
		}
		if ents.grants != 0 {
			t.Errorf("premium grants = %d, want 0 when the ledger is down", ents.grants)
		}
	})

	t.Run("non-duplicate insert failure is fatal", func(t *testing.T) {
		ledger := &fakeLedger{insertErr: errors.New("connection reset by peer")}
		ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com"})
		r := NewReconciler(ledger, ents)

		_, err := r.Reconcile(context.Background(), paidSession(), 0)
		if err == nil {
			t.Fatal("expected the insert failure to surface")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("error = %v, must not be classified as a duplicate", err)
		}
		if len(ledger.payments) != 0 {
			t.Errorf("ledger rows = %d, want 0", len(ledger.payments))
		}
		// The grant had already happened; monotonic, so a retry repairs
		// the missing ledger row without a second transition.
		if ents.grants != 1 {
			t.Errorf("premium grants = %d, want 1", ents.grants)
		}
	})
}

func TestReconcilePremiumIsMonotonic(t *testing.T) {
	ledger := &fakeLedger{}
	ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com", IsPremium: true})
	r := NewReconciler(ledger, ents)

	result, err := r.Reconcile(context.Background(), paidSession(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeReconciled {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeReconciled)
	}
	if ents.grants != 0 {
		t.Errorf("premium grants = %d, want 0 for an already-premium user", ents.grants)
	}
	if !ents.users[7].IsPremium {
		t.Error("premium flag must never be cleared")
	}
}

func TestReconcileLosingTheInsertRace(t *testing.T) {
	intent := "pi_1"
	winner := &Payment{UserID: 7, StripeSessionID: "sess_1", StripePaymentIntentID: &intent}

	// The lookup sees nothing, the insert hits the unique constraint, the
	// second lookup finds the record the other path just wrote.
	ledger := &racingLedger{winner: winner}
	ents := newFakeEntitlements(&users.User{ID: 7, Email: "alice@example.com"})
	r := NewReconciler(ledger, ents)

	result, err := r.Reconcile(context.Background(), paidSession(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeAlreadyReconciled {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeAlreadyReconciled)
	}
	if result.Payment != winner {
		t.Error("expected the record the concurrent path wrote")
	}
}

type racingLedger struct {
	winner *Payment
	finds  int
}

func (l *racingLedger) FindBySessionOrIntent(context.Context, string, string) (*Payment, error) {
	l.finds++
	if l.finds == 1 {
		return nil, nil
	}
	return l.winner, nil
}

func (l *racingLedger) Insert(context.Context, *Payment) error {
	return gorm.ErrDuplicatedKey
}

func TestReconcileConcurrentPaths(t *testing.T) {
	ledger := &fakeLedger{}
	ents := newFakeEntitlements(&users.User{ID: 7, Name: "Alice", Email: "alice@example.com"})
	r := NewReconciler(ledger, ents)

	var wg sync.WaitGroup
	results := make([]Result, 2)
	errs := make([]error, 2)

	// Webhook and verify-session arriving at the same time.
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			callerID := uint(0)
			if i == 1 {
				callerID = 7
			}
			results[i], errs[i] = r.Reconcile(context.Background(), paidSession(), callerID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("path %d failed: %v", i, err)
		}
	}
	if len(ledger.payments) != 1 {
		t.Fatalf("ledger rows = %d, want exactly 1", len(ledger.payments))
	}
	for _, result := range results {
		if result.Outcome != OutcomeReconciled && result.Outcome != OutcomeAlreadyReconciled {
			t.Errorf("unexpected outcome %q", result.Outcome)
		}
		if result.Payment == nil {
			t.Error("both paths should see a payment record")
		}
	}
	if !ents.users[7].IsPremium {
		t.Error("user should be premium after the race")
	}
}

func TestReconcilePaymentDefaults(t *testing.T) {
	ledger := &fakeLedger{}
	ents := newFakeEntitlements(&users.User{ID: 7, Name: "Alice Rahman", Email: "alice@example.com"})
	r := NewReconciler(ledger, ents)

	session := paidSession()
	session.PaymentMethod = ""
	session.CustomerName = ""
	session.PaymentIntentID = ""

	result, err := r.Reconcile(context.Background(), session, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := result.Payment
	if p.PaymentMethod != "card" {
		t.Errorf("payment method = %q, want card", p.PaymentMethod)
	}
	if p.CustomerName != "Alice Rahman" {
		t.Errorf("customer name = %q, want the account name", p.CustomerName)
	}
	if p.StripePaymentIntentID != nil {
		t.Errorf("payment intent = %v, want nil when the session has none", p.StripePaymentIntentID)
	}
}
