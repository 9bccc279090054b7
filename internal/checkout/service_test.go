package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/internal/cart"
	"github.com/aurumid/goldpos-backend/internal/transactions"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

type stubLedger struct {
	createErr  error
	paymentErr error

	created     *transactions.CreateInput
	paid        *transactions.PaymentInput
	transaction *models.Transaction
}

func (s *stubLedger) Create(_ context.Context, input transactions.CreateInput) (*models.Transaction, error) {
	s.created = &input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.transaction, nil
}

func (s *stubLedger) ProcessPayment(_ context.Context, input transactions.PaymentInput) (*models.Payment, error) {
	s.paid = &input
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	return &models.Payment{ID: uuid.New(), TransactionID: input.TransactionID, Amount: input.Amount}, nil
}

type stubSessions struct {
	cart    *cart.Cart
	loadErr error

	deletes   int
	deleteErr error
}

func (s *stubSessions) Load(context.Context, string, string) (*cart.Cart, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.cart, nil
}

func (s *stubSessions) Delete(context.Context, string, string) error {
	s.deletes++
	return s.deleteErr
}

func cartWithOneLine(unitPrice int64) *cart.Cart {
	active := cart.NewCart()
	active.AddItem(cart.Line{
		InventoryID: uuid.New(),
		Barcode:     "AU-0001",
		ProductName: "Cincin Emas 24K",
		GoldType:    enums.GoldTypeLM,
		GoldPurity:  999,
		WeightGram:  decimal.RequireFromString("5.0"),
		UnitPrice:   unitPrice,
	})
	return active
}

func saleInput() Input {
	return Input{
		Type:          enums.TransactionTypeSale,
		BranchID:      uuid.New(),
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodQRIS,
	}
}

func TestCheckoutCreateFailureSkipsPayment(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{createErr: pkgerrors.New(pkgerrors.CodeStateConflict, "inventory item is reserved")}
	sessions := &stubSessions{cart: cartWithOneLine(5_450_000)}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Execute(context.Background(), "branch-1", "till-1", saleInput())
	if err == nil {
		t.Fatal("expected checkout to fail")
	}

	stageErr, ok := AsStageError(err)
	if !ok {
		t.Fatalf("expected StageError, got %T", err)
	}
	if stageErr.Stage != StageCreateTransaction {
		t.Fatalf("stage = %q, want %q", stageErr.Stage, StageCreateTransaction)
	}
	if stageErr.TransactionID != nil {
		t.Fatal("create-stage failure must not carry a transaction id")
	}
	if ledger.paid != nil {
		t.Fatal("ProcessPayment must not run when Create fails")
	}
	if sessions.deletes != 0 {
		t.Fatal("cart session must survive a failed checkout")
	}
}

func TestCheckoutPaymentFailureNamesTransaction(t *testing.T) {
	t.Parallel()

	trxID := uuid.New()
	ledger := &stubLedger{
		transaction: &models.Transaction{ID: trxID, Total: 5_450_000},
		paymentErr:  pkgerrors.New(pkgerrors.CodeDependency, "insert payment"),
	}
	sessions := &stubSessions{cart: cartWithOneLine(5_450_000)}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Execute(context.Background(), "branch-1", "till-1", saleInput())
	stageErr, ok := AsStageError(err)
	if !ok {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != StageProcessPayment {
		t.Fatalf("stage = %q, want %q", stageErr.Stage, StageProcessPayment)
	}
	if stageErr.TransactionID == nil || *stageErr.TransactionID != trxID {
		t.Fatalf("payment-stage failure must carry the created transaction id, got %v", stageErr.TransactionID)
	}
	if sessions.deletes != 0 {
		t.Fatal("cart session must survive a failed payment for retry")
	}
	if !errors.Is(err, stageErr.Err) {
		t.Fatal("StageError must unwrap to the underlying error")
	}
}

func TestCheckoutSuccessClearsSessionAndForwardsCart(t *testing.T) {
	t.Parallel()

	trxID := uuid.New()
	ledger := &stubLedger{transaction: &models.Transaction{ID: trxID, Total: 5_250_000}}

	active := cartWithOneLine(5_450_000)
	if err := active.SetDiscount(200_000); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}
	sessions := &stubSessions{cart: active}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Execute(context.Background(), "branch-1", "till-1", saleInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Transaction.ID != trxID {
		t.Fatalf("transaction id = %s, want %s", result.Transaction.ID, trxID)
	}
	if result.Payment == nil {
		t.Fatal("expected payment in result")
	}
	if sessions.deletes != 1 {
		t.Fatalf("session deletes = %d, want 1", sessions.deletes)
	}
	if ledger.created.Discount != 200_000 {
		t.Fatalf("discount = %d, want cart discount 200000", ledger.created.Discount)
	}
	if len(ledger.created.Items) != 1 || ledger.created.Items[0].UnitPrice != 5_450_000 {
		t.Fatalf("unexpected items forwarded: %+v", ledger.created.Items)
	}
	// Non-cash payments settle the full total.
	if ledger.paid.Amount != 5_250_000 {
		t.Fatalf("payment amount = %d, want transaction total", ledger.paid.Amount)
	}
}

func TestCheckoutCashUsesTenderedAmount(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{transaction: &models.Transaction{ID: uuid.New(), Total: 5_450_000}}
	sessions := &stubSessions{cart: cartWithOneLine(5_450_000)}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	input := saleInput()
	input.PaymentMethod = enums.PaymentMethodCash
	input.CashTendered = 6_000_000

	if _, err := svc.Execute(context.Background(), "branch-1", "till-1", input); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ledger.paid.Amount != 6_000_000 {
		t.Fatalf("payment amount = %d, want tendered cash", ledger.paid.Amount)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{}
	sessions := &stubSessions{cart: cart.NewCart()}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Execute(context.Background(), "branch-1", "till-1", saleInput())
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ledger.created != nil {
		t.Fatal("empty cart must never reach the ledger")
	}
}

func TestCheckoutRejectsBuybackType(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{}
	sessions := &stubSessions{cart: cartWithOneLine(1_000_000)}

	svc, err := NewService(ledger, sessions, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	input := saleInput()
	input.Type = enums.TransactionTypeBuyback

	_, err = svc.Execute(context.Background(), "branch-1", "till-1", input)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
