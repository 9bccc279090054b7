package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

type inventoryLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

type priceProvider interface {
	TodaySnapshot(ctx context.Context) (*pricing.Snapshot, error)
}

// Service exposes the cart operations for one POS terminal. The engine never
// prices items itself; unit prices come from today's snapshot at add time.
type Service interface {
	Get(ctx context.Context, branchID, cartID string) (*Cart, error)
	AddItem(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID) (*Cart, AddOutcome, error)
	RemoveItem(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID, quantity int) (*Cart, error)
	SetDiscount(ctx context.Context, branchID, cartID string, amount int64) (*Cart, error)
	Clear(ctx context.Context, branchID, cartID string) error
}

type service struct {
	sessions  SessionStore
	inventory inventoryLoader
	prices    priceProvider
}

// NewService builds a cart service backed by the provided stack.
func NewService(sessions SessionStore, inventory inventoryLoader, prices priceProvider) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory loader required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price provider required")
	}
	return &service{sessions: sessions, inventory: inventory, prices: prices}, nil
}

func (s *service) Get(ctx context.Context, branchID, cartID string) (*Cart, error) {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return nil, err
	}
	return s.sessions.Load(ctx, branchID, cartID)
}

// AddItem prices an available inventory unit against today's sell quotes and
// appends it to the cart. An unpriced (type, purity) pair blocks the add: a
// zero price is never treated as a real price.
func (s *service) AddItem(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID) (*Cart, AddOutcome, error) {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return nil, "", err
	}
	if inventoryID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}

	item, err := s.inventory.GetByID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if item.Status != enums.InventoryStatusAvailable {
		return nil, "", pkgerrors.New(pkgerrors.CodeStateConflict, "inventory item is not available for sale")
	}
	if item.Product == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "inventory item missing product")
	}

	snapshot, err := s.prices.TodaySnapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	perGram, ok := snapshot.SellPerGram(item.Product.GoldType, item.Product.GoldPurity)
	if !ok {
		return nil, "", pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("no sell price today for %s %d", item.Product.GoldType, item.Product.GoldPurity),
		)
	}
	unitPrice := pricing.ComputeSalePrice(item.Product.WeightGram, perGram, item.Product.LaborCost)

	cart, err := s.sessions.Load(ctx, branchID, cartID)
	if err != nil {
		return nil, "", err
	}

	outcome := cart.AddItem(Line{
		InventoryID: item.ID,
		Barcode:     item.Barcode,
		ProductName: item.Product.Name,
		GoldType:    item.Product.GoldType,
		GoldPurity:  item.Product.GoldPurity,
		WeightGram:  item.Product.WeightGram,
		LaborCost:   item.Product.LaborCost,
		UnitPrice:   unitPrice,
	})
	if outcome == OutcomeAdded {
		if err := s.sessions.Save(ctx, branchID, cartID, cart); err != nil {
			return nil, "", err
		}
	}
	return cart, outcome, nil
}

func (s *service) RemoveItem(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID) (*Cart, error) {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return nil, err
	}
	cart, err := s.sessions.Load(ctx, branchID, cartID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(inventoryID)
	if err := s.sessions.Save(ctx, branchID, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, branchID, cartID string, inventoryID uuid.UUID, quantity int) (*Cart, error) {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return nil, err
	}
	cart, err := s.sessions.Load(ctx, branchID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateItemQuantity(inventoryID, quantity); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, branchID, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetDiscount(ctx context.Context, branchID, cartID string, amount int64) (*Cart, error) {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return nil, err
	}
	cart, err := s.sessions.Load(ctx, branchID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetDiscount(amount); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, branchID, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, branchID, cartID string) error {
	if err := validateSessionKeys(branchID, cartID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, branchID, cartID)
}

func validateSessionKeys(branchID, cartID string) error {
	if branchID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "branch id is required")
	}
	if cartID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return nil
}
