package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubRepo struct {
	Repository

	products  map[uuid.UUID]*models.Product
	createErr error
	created   []*models.InventoryItem
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubRepo) CreateItem(_ context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	item.ID = uuid.New()
	s.created = append(s.created, item)
	return item, nil
}

func testProduct() *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       "Cincin Polos 24K",
		GoldType:   enums.GoldTypeLM,
		GoldPurity: 999,
		WeightGram: decimal.RequireFromString("5.0"),
	}
}

func newTestService(t *testing.T, repo *stubRepo, emitter *stubEmitter) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, emitter)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemCreatesAvailableAndEmits(t *testing.T) {
	t.Parallel()

	product := testProduct()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{product.ID: product}}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter)

	item, err := svc.AddItem(context.Background(), AddItemInput{
		ProductID:     product.ID,
		BranchID:      uuid.New(),
		Barcode:       "AU-0001",
		PurchasePrice: 4_000_000,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Status != enums.InventoryStatusAvailable {
		t.Fatalf("status = %q, want available", item.Status)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("events = %d, want 1", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventInventoryUpdated || event.AggregateType != enums.AggregateInventory {
		t.Fatalf("unexpected event %s/%s", event.EventType, event.AggregateType)
	}
}

func TestAddItemGeneratesBarcodeWhenBlank(t *testing.T) {
	t.Parallel()

	product := testProduct()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newTestService(t, repo, &stubEmitter{})

	item, err := svc.AddItem(context.Background(), AddItemInput{
		ProductID:     product.ID,
		BranchID:      uuid.New(),
		Barcode:       "   ",
		PurchasePrice: 4_000_000,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if !strings.HasPrefix(item.Barcode, "AU-") || len(item.Barcode) != len("AU-")+12 {
		t.Fatalf("barcode = %q, want generated AU- code", item.Barcode)
	}
}

func TestAddItemDuplicateBarcodeConflicts(t *testing.T) {
	t.Parallel()

	product := testProduct()
	repo := &stubRepo{
		products:  map[uuid.UUID]*models.Product{product.ID: product},
		createErr: errors.New(`ERROR: duplicate key value violates unique constraint "idx_inventory_barcode"`),
	}
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		ProductID:     product.ID,
		BranchID:      uuid.New(),
		Barcode:       "AU-0001",
		PurchasePrice: 4_000_000,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{products: map[uuid.UUID]*models.Product{}}
	svc := newTestService(t, repo, &stubEmitter{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		ProductID:     uuid.New(),
		BranchID:      uuid.New(),
		PurchasePrice: 1,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing category", CreateProductInput{Name: "x", GoldType: enums.GoldTypeLM, GoldPurity: 999, WeightGram: decimal.NewFromInt(1)}},
		{"blank name", CreateProductInput{CategoryID: uuid.New(), Name: "  ", GoldType: enums.GoldTypeLM, GoldPurity: 999, WeightGram: decimal.NewFromInt(1)}},
		{"bad gold type", CreateProductInput{CategoryID: uuid.New(), Name: "x", GoldType: "Antam", GoldPurity: 999, WeightGram: decimal.NewFromInt(1)}},
		{"purity out of range", CreateProductInput{CategoryID: uuid.New(), Name: "x", GoldType: enums.GoldTypeLM, GoldPurity: 100, WeightGram: decimal.NewFromInt(1)}},
		{"zero weight", CreateProductInput{CategoryID: uuid.New(), Name: "x", GoldType: enums.GoldTypeLM, GoldPurity: 999}},
		{"negative labor", CreateProductInput{CategoryID: uuid.New(), Name: "x", GoldType: enums.GoldTypeLM, GoldPurity: 999, WeightGram: decimal.NewFromInt(1), LaborCost: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, &stubRepo{}, &stubEmitter{})
			_, err := svc.CreateProduct(context.Background(), tc.input)
			var coded *pkgerrors.Error
			if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
