package pricing

import (
	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// Quote is one row of the daily price table: rupiah per gram for an exact
// (gold type, purity) pair.
type Quote struct {
	GoldType    enums.GoldType
	Purity      int
	BuyPerGram  int64
	SellPerGram int64
}

type quoteKey struct {
	goldType enums.GoldType
	purity   int
}

// Snapshot is a read-only view of the price table for a single day. Lookups
// are exact-match only: no interpolation or fallback across purities.
type Snapshot struct {
	date   string
	quotes map[quoteKey]Quote
}

// NewSnapshot indexes the provided quotes by (gold type, purity).
func NewSnapshot(date string, quotes []Quote) *Snapshot {
	indexed := make(map[quoteKey]Quote, len(quotes))
	for _, quote := range quotes {
		indexed[quoteKey{goldType: quote.GoldType, purity: quote.Purity}] = quote
	}
	return &Snapshot{date: date, quotes: indexed}
}

// Date returns the day this snapshot was taken for, formatted YYYY-MM-DD.
func (s *Snapshot) Date() string {
	if s == nil {
		return ""
	}
	return s.date
}

// SellPerGram returns the sale-side quote. A missing pair, and a stored price
// of zero, both report ok=false: "no price available today" is a valid state
// and must never be confused with a free item.
func (s *Snapshot) SellPerGram(goldType enums.GoldType, purity int) (int64, bool) {
	if s == nil {
		return 0, false
	}
	quote, ok := s.quotes[quoteKey{goldType: goldType, purity: purity}]
	if !ok || quote.SellPerGram <= 0 {
		return 0, false
	}
	return quote.SellPerGram, true
}

// BuyPerGram returns the buyback-side quote with the same absence semantics
// as SellPerGram.
func (s *Snapshot) BuyPerGram(goldType enums.GoldType, purity int) (int64, bool) {
	if s == nil {
		return 0, false
	}
	quote, ok := s.quotes[quoteKey{goldType: goldType, purity: purity}]
	if !ok || quote.BuyPerGram <= 0 {
		return 0, false
	}
	return quote.BuyPerGram, true
}

// Len reports how many (gold type, purity) pairs have quotes.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.quotes)
}
