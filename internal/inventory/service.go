package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// AddItemInput registers one physical piece into stock.
type AddItemInput struct {
	ProductID     uuid.UUID
	BranchID      uuid.UUID
	Barcode       string
	Location      *string
	PurchasePrice int64
	PurchaseDate  *time.Time
	Supplier      *string
	Notes         *string
	Actor         *outbox.ActorRef
}

// CreateProductInput defines a catalog entry pieces are minted from.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	SKU         *string
	Name        string
	Description *string
	GoldType    enums.GoldType
	GoldPurity  int
	WeightGram  decimal.Decimal
	LaborCost   int64
}

// Service owns stock intake and catalog reads. Status transitions during a
// sale (reserved, sold, back to available on void) belong to the
// transactions service; this one covers everything before the piece reaches
// the counter.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ScanBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error)
	List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, location string) error
	Stats(ctx context.Context, branchID uuid.UUID) (*Stats, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events outboxEmitter
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner, events outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, tx: tx, events: events}, nil
}

type inventoryPayload struct {
	InventoryID uuid.UUID             `json:"inventoryId"`
	ProductID   uuid.UUID             `json:"productId"`
	BranchID    uuid.UUID             `json:"branchId"`
	Barcode     string                `json:"barcode"`
	Status      enums.InventoryStatus `json:"status"`
}

// AddItem books one piece into stock as available. A blank barcode gets a
// generated one so unlabeled intake can still be scanned later.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.InventoryItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.BranchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch id required")
	}
	if input.PurchasePrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase price cannot be negative")
	}

	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	barcode := strings.TrimSpace(input.Barcode)
	if barcode == "" {
		barcode = generateBarcode()
	}

	var created *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item := &models.InventoryItem{
			ProductID:     input.ProductID,
			BranchID:      input.BranchID,
			Barcode:       barcode,
			Status:        enums.InventoryStatusAvailable,
			Location:      input.Location,
			PurchasePrice: input.PurchasePrice,
			PurchaseDate:  input.PurchaseDate,
			Supplier:      input.Supplier,
			Notes:         input.Notes,
		}
		saved, err := repo.CreateItem(ctx, item)
		if err != nil {
			return err
		}
		created = saved

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryUpdated,
			AggregateType: enums.AggregateInventory,
			AggregateID:   saved.ID,
			Actor:         input.Actor,
			Version:       1,
			Data: inventoryPayload{
				InventoryID: saved.ID,
				ProductID:   saved.ProductID,
				BranchID:    saved.BranchID,
				Barcode:     saved.Barcode,
				Status:      saved.Status,
			},
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("barcode %q already registered", barcode))
		}
		return nil, wrapErr(err, "add inventory item")
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ScanBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode required")
	}
	item, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no inventory with barcode %q", barcode))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan barcode")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory status %q", *filter.Status))
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return items, nil
}

func (s *service) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory id required")
	}
	if err := s.repo.UpdateLocation(ctx, id, location); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory location")
	}
	return nil
}

func (s *service) Stats(ctx context.Context, branchID uuid.UUID) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inventory stats")
	}
	return stats, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if !input.GoldType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gold type %q", input.GoldType))
	}
	if !enums.ValidPurity(input.GoldPurity) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("purity %d out of range", input.GoldPurity))
	}
	if !input.WeightGram.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.LaborCost < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "labor cost cannot be negative")
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		GoldType:    input.GoldType,
		GoldPurity:  input.GoldPurity,
		WeightGram:  input.WeightGram,
		LaborCost:   input.LaborCost,
		IsActive:    true,
	}
	saved, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return saved, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

// generateBarcode mints an AU-prefixed code from a fresh uuid. Collisions are
// caught by the unique index, not here.
func generateBarcode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AU-" + strings.ToUpper(raw[:12])
}

func wrapErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
