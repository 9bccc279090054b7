package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/internal/cart"
	"github.com/aurumid/goldpos-backend/internal/transactions"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

type ledger interface {
	Create(ctx context.Context, input transactions.CreateInput) (*models.Transaction, error)
	ProcessPayment(ctx context.Context, input transactions.PaymentInput) (*models.Payment, error)
}

type cartSessions interface {
	Load(ctx context.Context, branchID, cartID string) (*cart.Cart, error)
	Delete(ctx context.Context, branchID, cartID string) error
}

// Input carries everything the counter knows at the moment the operator hits
// "pay": the terminal's cart identity, payment details, and any old gold
// taken in trade.
type Input struct {
	Type          enums.TransactionType
	BranchID      uuid.UUID
	UserID        uuid.UUID
	CustomerID    *uuid.UUID
	BuybackItems  []models.BuybackItem
	Tax           int64
	Notes         *string
	PaymentMethod enums.PaymentMethod
	CashTendered  int64
	ReferenceNo   *string
	BankName      *string
	Actor         *outbox.ActorRef
}

// Result is the combined outcome of both checkout stages.
type Result struct {
	Transaction *models.Transaction
	Payment     *models.Payment
}

// Service sequences the two backend writes of a checkout: create the
// transaction record, then record its payment. The two stages are not atomic;
// a payment failure leaves a created-but-unpaid transaction behind, and the
// returned error says so.
type Service interface {
	Execute(ctx context.Context, branchID, cartID string, input Input) (*Result, error)
}

type service struct {
	ledger   ledger
	sessions cartSessions
	logg     *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(ledger ledger, sessions cartSessions, logg *logger.Logger) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("transactions service required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	return &service{ledger: ledger, sessions: sessions, logg: logg}, nil
}

// Execute runs the two checkout stages in strict order. Payment is never
// attempted when transaction creation fails, and every failure is attributed
// to exactly one stage via StageError.
func (s *service) Execute(ctx context.Context, branchID, cartID string, input Input) (*Result, error) {
	if input.Type != enums.TransactionTypeSale && input.Type != enums.TransactionTypeExchange {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout supports sale and exchange transactions")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.PaymentMethod == enums.PaymentMethodCash && input.CashTendered < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered cannot be negative")
	}

	active, err := s.sessions.Load(ctx, branchID, cartID)
	if err != nil {
		return nil, err
	}
	if active.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]transactions.ItemInput, 0, len(active.Lines))
	for _, line := range active.Lines {
		items = append(items, transactions.ItemInput{
			InventoryID: line.InventoryID,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}

	trx, err := s.ledger.Create(ctx, transactions.CreateInput{
		Type:         input.Type,
		BranchID:     input.BranchID,
		UserID:       input.UserID,
		CustomerID:   input.CustomerID,
		Items:        items,
		BuybackItems: input.BuybackItems,
		Discount:     active.Discount,
		Tax:          input.Tax,
		Notes:        input.Notes,
		Actor:        input.Actor,
	})
	if err != nil {
		return nil, &StageError{Stage: StageCreateTransaction, Err: err}
	}

	payment, err := s.ledger.ProcessPayment(ctx, transactions.PaymentInput{
		TransactionID: trx.ID,
		Method:        input.PaymentMethod,
		Amount:        paymentAmount(input, trx.Total),
		ReferenceNo:   input.ReferenceNo,
		BankName:      input.BankName,
		Actor:         input.Actor,
	})
	if err != nil {
		return nil, &StageError{Stage: StageProcessPayment, TransactionID: &trx.ID, Err: err}
	}

	// The sale is durable at this point. Losing the session only costs the
	// operator an empty-cart click, so a redis hiccup here is not a failure.
	if err := s.sessions.Delete(ctx, branchID, cartID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clear cart session after checkout")
	}

	return &Result{Transaction: trx, Payment: payment}, nil
}

// paymentAmount resolves what is recorded on the payment row: for cash the
// amount actually tendered, otherwise the transaction total. A store-owes
// exchange records zero.
func paymentAmount(input Input, total int64) int64 {
	if input.PaymentMethod == enums.PaymentMethodCash {
		return input.CashTendered
	}
	if total < 0 {
		return 0
	}
	return total
}
