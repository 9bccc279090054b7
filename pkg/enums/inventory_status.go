package enums

// InventoryStatus tracks a single physical item through its lifecycle.
// Reserved marks items tied to a pending transaction; a paid sale moves them
// to sold, a void returns them to available.
type InventoryStatus string

const (
	InventoryStatusAvailable InventoryStatus = "available"
	InventoryStatusReserved  InventoryStatus = "reserved"
	InventoryStatusSold      InventoryStatus = "sold"
)

func (s InventoryStatus) IsValid() bool {
	switch s {
	case InventoryStatusAvailable, InventoryStatusReserved, InventoryStatusSold:
		return true
	}
	return false
}
