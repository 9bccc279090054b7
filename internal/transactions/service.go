package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

const invoiceDayLayout = "20060102"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ItemInput is one sale line: a uniquely barcoded inventory unit and the
// price it was quoted at add-to-cart time.
type ItemInput struct {
	InventoryID  uuid.UUID
	UnitPrice    int64
	Quantity     int
	GoldPriceRef *int64
}

// CreateInput is the first checkout stage: the durable transaction record.
// BuybackItems carry the full piece value in UnitPrice, priced at the
// buy-side quote.
type CreateInput struct {
	Type         enums.TransactionType
	BranchID     uuid.UUID
	UserID       uuid.UUID
	CustomerID   *uuid.UUID
	Items        []ItemInput
	BuybackItems []models.BuybackItem
	Discount     int64
	Tax          int64
	Notes        *string
	Actor        *outbox.ActorRef
}

// PaymentInput is the second checkout stage.
type PaymentInput struct {
	TransactionID uuid.UUID
	Method        enums.PaymentMethod
	Amount        int64
	ReferenceNo   *string
	BankName      *string
	Actor         *outbox.ActorRef
}

// Service owns the transaction ledger: creation, payment, void, and listing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Transaction, error)
	ProcessPayment(ctx context.Context, input PaymentInput) (*models.Payment, error)
	Void(ctx context.Context, id uuid.UUID, reason string, actor *outbox.ActorRef) (*models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]models.Transaction, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events outboxEmitter
	now    func() time.Time
}

// NewService builds the transactions service.
func NewService(repo Repository, tx txRunner, events outboxEmitter, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, events: events, now: now}, nil
}

// Create persists the transaction header, lines, and buyback lines atomically,
// reserving sale inventory in the same database transaction. The invoice
// number is INV/BUY/EXC-YYYYMMDD-NNN, sequential per type per day.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Transaction, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	subtotal, total := computeTotals(input)

	var created *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		invoiceNo, err := s.nextInvoiceNo(ctx, repo, input.Type)
		if err != nil {
			return err
		}

		trx := &models.Transaction{
			BranchID:   input.BranchID,
			UserID:     input.UserID,
			CustomerID: input.CustomerID,
			InvoiceNo:  invoiceNo,
			Type:       input.Type,
			Subtotal:   subtotal,
			Discount:   input.Discount,
			Tax:        input.Tax,
			Total:      total,
			Notes:      input.Notes,
			Status:     enums.TransactionStatusPending,
		}
		if _, err := repo.Create(ctx, trx); err != nil {
			return err
		}

		items := make([]models.TransactionItem, 0, len(input.Items))
		inventoryIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			items = append(items, models.TransactionItem{
				TransactionID: trx.ID,
				InventoryID:   item.InventoryID,
				Quantity:      quantity,
				UnitPrice:     item.UnitPrice,
				Subtotal:      item.UnitPrice * int64(quantity),
				GoldPriceRef:  item.GoldPriceRef,
			})
			inventoryIDs = append(inventoryIDs, item.InventoryID)
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}

		buybackItems := make([]models.BuybackItem, 0, len(input.BuybackItems))
		for _, item := range input.BuybackItems {
			item.TransactionID = trx.ID
			buybackItems = append(buybackItems, item)
		}
		if err := repo.CreateBuybackItems(ctx, buybackItems); err != nil {
			return err
		}

		// Sold goods leave the floor the moment the sale is rung up, even
		// before payment lands.
		if input.Type == enums.TransactionTypeSale || input.Type == enums.TransactionTypeExchange {
			if err := repo.ReserveInventory(ctx, inventoryIDs); err != nil {
				return err
			}
		}

		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionCreated,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   trx.ID,
			Actor:         input.Actor,
			Version:       1,
			Data: transactionEventPayload{
				TransactionID: trx.ID,
				InvoiceNo:     trx.InvoiceNo,
				Type:          trx.Type,
				Status:        trx.Status,
				Total:         trx.Total,
			},
		}); err != nil {
			return err
		}

		created = trx
		return nil
	})
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
	}
	return created, nil
}

// ProcessPayment records a successful payment and, once the succeeded sum
// covers the transaction total, completes the transaction: sale inventory is
// marked sold and the customer's transaction count is bumped.
func (s *service) ProcessPayment(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.Method))
	}
	// Zero is allowed: an even exchange settles with no money changing hands,
	// but still needs a payment row to complete the transaction.
	if input.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount cannot be negative")
	}

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		trx, err := repo.FindByID(ctx, input.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return err
		}
		if trx.Status == enums.TransactionStatusVoid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot pay a voided transaction")
		}

		paidAt := s.now()
		payment = &models.Payment{
			TransactionID: trx.ID,
			Method:        input.Method,
			Amount:        input.Amount,
			ReferenceNo:   input.ReferenceNo,
			BankName:      input.BankName,
			Status:        enums.PaymentStatusSuccess,
			PaidAt:        &paidAt,
		}
		if _, err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		totalPaid, err := repo.SumSucceededPayments(ctx, trx.ID)
		if err != nil {
			return err
		}
		if totalPaid < trx.Total {
			return nil
		}

		if err := repo.UpdateStatus(ctx, trx.ID, enums.TransactionStatusCompleted); err != nil {
			return err
		}
		if trx.Type == enums.TransactionTypeSale || trx.Type == enums.TransactionTypeExchange {
			if err := repo.MarkInventorySold(ctx, trx.ID, paidAt); err != nil {
				return err
			}
		}
		if trx.CustomerID != nil {
			if err := repo.BumpCustomerTransactions(ctx, *trx.CustomerID); err != nil {
				return err
			}
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionPaid,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   trx.ID,
			Actor:         input.Actor,
			Version:       1,
			Data: transactionEventPayload{
				TransactionID: trx.ID,
				InvoiceNo:     trx.InvoiceNo,
				Type:          trx.Type,
				Status:        enums.TransactionStatusCompleted,
				Total:         trx.Total,
			},
		})
	})
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "process payment")
	}
	return payment, nil
}

// Void cancels a transaction and puts reserved or sold sale inventory back on
// the floor. Voiding twice is a conflict.
func (s *service) Void(ctx context.Context, id uuid.UUID, reason string, actor *outbox.ActorRef) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "void reason is required")
	}

	var voided *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		trx, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return err
		}
		if trx.Status == enums.TransactionStatusVoid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction already voided")
		}

		if err := repo.UpdateStatusAndNotes(ctx, id, enums.TransactionStatusVoid, "VOID: "+reason); err != nil {
			return err
		}
		if trx.Type == enums.TransactionTypeSale || trx.Type == enums.TransactionTypeExchange {
			if err := repo.RestoreInventory(ctx, id); err != nil {
				return err
			}
		}

		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionVoided,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   trx.ID,
			Actor:         actor,
			Version:       1,
			Data: transactionEventPayload{
				TransactionID: trx.ID,
				InvoiceNo:     trx.InvoiceNo,
				Type:          trx.Type,
				Status:        enums.TransactionStatusVoid,
				Total:         trx.Total,
			},
		}); err != nil {
			return err
		}

		voided, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void transaction")
	}
	return voided, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	trx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return trx, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Transaction, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return rows, nil
}

func (s *service) nextInvoiceNo(ctx context.Context, repo Repository, txType enums.TransactionType) (string, error) {
	day := s.now().Format(invoiceDayLayout)
	prefix := txType.InvoicePrefix()
	count, err := repo.CountByInvoicePattern(ctx, fmt.Sprintf("%s-%s-%%", prefix, day))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, day, count+1), nil
}

func validateCreateInput(input CreateInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if input.BranchID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "branch id is required")
	}
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Discount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	if input.Tax < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax cannot be negative")
	}
	for _, item := range input.Items {
		if item.InventoryID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item inventory id is required")
		}
		if item.UnitPrice < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
	}
	for _, item := range input.BuybackItems {
		if !item.GoldType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gold type %q", item.GoldType))
		}
		if !enums.ValidPurity(item.GoldPurity) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purity %d", item.GoldPurity))
		}
		if item.UnitPrice < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buyback unit price cannot be negative")
		}
	}

	switch input.Type {
	case enums.TransactionTypeSale:
		if len(input.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
		}
		if len(input.BuybackItems) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale cannot carry buyback items")
		}
	case enums.TransactionTypeBuyback:
		if len(input.BuybackItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buyback requires at least one buyback item")
		}
		if len(input.Items) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buyback cannot carry sale items")
		}
		if input.Discount != 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buyback does not support discounts")
		}
	case enums.TransactionTypeExchange:
		if len(input.Items) == 0 || len(input.BuybackItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "exchange requires sale items and buyback items")
		}
	}
	return nil
}

// computeTotals derives the header amounts server-side. For a sale the total
// is clamped at zero when the discount exceeds the subtotal; for an exchange
// the buyback value offsets the sale value and the total stays signed, with
// negative meaning the store returns change.
func computeTotals(input CreateInput) (subtotal int64, total int64) {
	var saleSubtotal int64
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		saleSubtotal += item.UnitPrice * int64(quantity)
	}
	var buybackTotal int64
	for _, item := range input.BuybackItems {
		buybackTotal += item.UnitPrice
	}

	switch input.Type {
	case enums.TransactionTypeBuyback:
		return buybackTotal, buybackTotal
	case enums.TransactionTypeExchange:
		return saleSubtotal, saleSubtotal - input.Discount + input.Tax - buybackTotal
	default:
		total = saleSubtotal - input.Discount + input.Tax
		if total < 0 {
			total = 0
		}
		return saleSubtotal, total
	}
}
