package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

func testLine(unitPrice int64) Line {
	return Line{
		InventoryID: uuid.New(),
		Barcode:     "AU-0001",
		ProductName: "Cincin Emas 2g",
		GoldType:    enums.GoldTypeLM,
		GoldPurity:  750,
		WeightGram:  decimal.RequireFromString("2.0"),
		LaborCost:   150000,
		UnitPrice:   unitPrice,
	}
}

func TestCartSubtotalTracksLines(t *testing.T) {
	t.Parallel()

	c := NewCart()
	first := testLine(2_500_000)
	second := testLine(1_800_000)

	if outcome := c.AddItem(first); outcome != OutcomeAdded {
		t.Fatalf("expected added, got %s", outcome)
	}
	if outcome := c.AddItem(second); outcome != OutcomeAdded {
		t.Fatalf("expected added, got %s", outcome)
	}
	if c.Subtotal != 4_300_000 {
		t.Fatalf("expected subtotal 4300000, got %d", c.Subtotal)
	}

	if err := c.UpdateItemQuantity(second.InventoryID, 3); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if c.Subtotal != 2_500_000+3*1_800_000 {
		t.Fatalf("unexpected subtotal after quantity change: %d", c.Subtotal)
	}

	c.RemoveItem(first.InventoryID)
	if c.Subtotal != 3*1_800_000 {
		t.Fatalf("unexpected subtotal after removal: %d", c.Subtotal)
	}
}

func TestCartTotalNeverNegative(t *testing.T) {
	t.Parallel()

	c := NewCart()
	c.AddItem(testLine(1_000_000))

	if err := c.SetDiscount(250_000); err != nil {
		t.Fatalf("set discount: %v", err)
	}
	if c.Total != 750_000 {
		t.Fatalf("expected total 750000, got %d", c.Total)
	}

	// Discount above subtotal clamps the total, not the stored discount.
	if err := c.SetDiscount(5_000_000); err != nil {
		t.Fatalf("set discount: %v", err)
	}
	if c.Total != 0 {
		t.Fatalf("expected total clamped to 0, got %d", c.Total)
	}
	if c.Discount != 5_000_000 {
		t.Fatalf("discount should store the entered value, got %d", c.Discount)
	}

	if err := c.SetDiscount(-1); err == nil {
		t.Fatal("expected error for negative discount")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCartDuplicateAddIsNamedNoOp(t *testing.T) {
	t.Parallel()

	c := NewCart()
	line := testLine(2_000_000)

	if outcome := c.AddItem(line); outcome != OutcomeAdded {
		t.Fatalf("expected added, got %s", outcome)
	}

	dup := line
	dup.UnitPrice = 9_999_999
	if outcome := c.AddItem(dup); outcome != OutcomeAlreadyPresent {
		t.Fatalf("expected already_present, got %s", outcome)
	}

	if len(c.Lines) != 1 {
		t.Fatalf("expected single line, got %d", len(c.Lines))
	}
	kept, ok := c.FindLine(line.InventoryID)
	if !ok {
		t.Fatal("line missing after duplicate add")
	}
	if kept.UnitPrice != 2_000_000 || kept.Quantity != 1 {
		t.Fatalf("duplicate add mutated the existing line: %+v", kept)
	}
}

func TestCartClearResetsEverything(t *testing.T) {
	t.Parallel()

	c := NewCart()
	c.AddItem(testLine(3_000_000))
	c.AddItem(testLine(1_500_000))
	if err := c.SetDiscount(200_000); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	c.Clear()

	if !c.IsEmpty() || c.Discount != 0 || c.Subtotal != 0 || c.Total != 0 {
		t.Fatalf("cart not reset: %+v", c)
	}
}

func TestCartUpdateQuantityValidation(t *testing.T) {
	t.Parallel()

	c := NewCart()
	line := testLine(1_000_000)
	c.AddItem(line)

	if err := c.UpdateItemQuantity(line.InventoryID, 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if err := c.UpdateItemQuantity(uuid.New(), 2); err == nil {
		t.Fatal("expected error for unknown line")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}
