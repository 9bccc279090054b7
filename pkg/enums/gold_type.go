package enums

// GoldType is the sourcing category an item is priced under. Each type has
// its own per-gram quote, so a 750 LM gram and a 750 Lokal gram differ.
type GoldType string

const (
	GoldTypeLM    GoldType = "LM"
	GoldTypeUBS   GoldType = "UBS"
	GoldTypeLokal GoldType = "Lokal"
)

func (g GoldType) IsValid() bool {
	switch g {
	case GoldTypeLM, GoldTypeUBS, GoldTypeLokal:
		return true
	}
	return false
}

// ValidPurity reports whether the per-mille fineness is within the range the
// shop trades (375 up to 999).
func ValidPurity(purity int) bool {
	return purity >= 375 && purity <= 999
}
