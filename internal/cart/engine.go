package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

// AddOutcome distinguishes "line appended" from "line already in the cart".
type AddOutcome string

const (
	OutcomeAdded          AddOutcome = "added"
	OutcomeAlreadyPresent AddOutcome = "already_present"
)

// Line is one row of the active sale, bound to exactly one physical inventory unit.
type Line struct {
	InventoryID uuid.UUID       `json:"inventory_id"`
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"product_name"`
	GoldType    enums.GoldType  `json:"gold_type"`
	GoldPurity  int             `json:"gold_purity"`
	WeightGram  decimal.Decimal `json:"weight_gram"`
	LaborCost   int64           `json:"labor_cost"`
	UnitPrice   int64           `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    int64           `json:"subtotal"`
}

// Cart is the aggregate active-sale state for one terminal. Lines keep
// insertion order, which is also the receipt display order.
type Cart struct {
	Lines     []Line    `json:"lines"`
	Discount  int64     `json:"discount"`
	Subtotal  int64     `json:"subtotal"`
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Lines: []Line{}}
}

// AddItem appends a new line with quantity 1. Adding an inventory unit that is
// already in the cart is not an error: each line is a unique physical item, so
// the call reports OutcomeAlreadyPresent and leaves the existing line untouched.
func (c *Cart) AddItem(line Line) AddOutcome {
	for _, existing := range c.Lines {
		if existing.InventoryID == line.InventoryID {
			return OutcomeAlreadyPresent
		}
	}
	line.Quantity = 1
	line.Subtotal = line.UnitPrice
	c.Lines = append(c.Lines, line)
	c.recalculate()
	return OutcomeAdded
}

// RemoveItem drops the line matching the identifier. Absent lines are a no-op.
func (c *Cart) RemoveItem(inventoryID uuid.UUID) {
	for i, line := range c.Lines {
		if line.InventoryID == inventoryID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.recalculate()
			return
		}
	}
}

// UpdateItemQuantity sets the quantity on the matching line. Quantities below
// one are rejected; there is no upper cap even though sale lines normally stay
// at one per serial-numbered unit.
func (c *Cart) UpdateItemQuantity(inventoryID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	for i := range c.Lines {
		if c.Lines[i].InventoryID == inventoryID {
			c.Lines[i].Quantity = quantity
			c.Lines[i].Subtotal = c.Lines[i].UnitPrice * int64(quantity)
			c.recalculate()
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// SetDiscount stores the cart-level discount as given. The discount may exceed
// the subtotal; the total is clamped at zero instead of capping the discount.
func (c *Cart) SetDiscount(amount int64) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	c.Discount = amount
	c.recalculate()
	return nil
}

// Clear resets to the empty-cart state.
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.Discount = 0
	c.Subtotal = 0
	c.Total = 0
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart has no lines. Checkout requires a non-empty cart.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the line for the inventory unit, if present.
func (c *Cart) FindLine(inventoryID uuid.UUID) (Line, bool) {
	for _, line := range c.Lines {
		if line.InventoryID == inventoryID {
			return line, true
		}
	}
	return Line{}, false
}

func (c *Cart) recalculate() {
	var subtotal int64
	for _, line := range c.Lines {
		subtotal += line.Subtotal
	}
	c.Subtotal = subtotal
	total := subtotal - c.Discount
	if total < 0 {
		total = 0
	}
	c.Total = total
	c.UpdatedAt = time.Now()
}
