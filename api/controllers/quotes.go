package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	"github.com/aurumid/goldpos-backend/internal/exchange"
	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type oldGoldItemRequest struct {
	GoldType   string          `json:"gold_type" validate:"required,oneof=LM UBS Lokal"`
	GoldPurity int             `json:"gold_purity" validate:"required"`
	WeightGram decimal.Decimal `json:"weight_gram" validate:"required"`
}

type buybackQuoteRequest struct {
	Items []oldGoldItemRequest `json:"items" validate:"required,dive"`
}

type exchangeQuoteRequest struct {
	OldItems     []oldGoldItemRequest `json:"old_items" validate:"required,dive"`
	NewGoldTotal int64                `json:"new_gold_total" validate:"required,gt=0"`
}

type valuedItemResponse struct {
	GoldType   string          `json:"gold_type"`
	GoldPurity int             `json:"gold_purity"`
	WeightGram decimal.Decimal `json:"weight_gram"`
	PerGram    int64           `json:"per_gram"`
	Value      int64           `json:"value"`
}

type buybackQuoteResponse struct {
	Date  string               `json:"date"`
	Items []valuedItemResponse `json:"items"`
	Total int64                `json:"total"`
}

type exchangeQuoteResponse struct {
	Date         string               `json:"date"`
	OldItems     []valuedItemResponse `json:"old_items"`
	OldGoldTotal int64                `json:"old_gold_total"`
	NewGoldTotal int64                `json:"new_gold_total"`
	Difference   int64                `json:"difference"`
}

func toOldGoldItems(items []oldGoldItemRequest) []exchange.OldGoldItem {
	out := make([]exchange.OldGoldItem, 0, len(items))
	for _, item := range items {
		out = append(out, exchange.OldGoldItem{
			GoldType:   enums.GoldType(item.GoldType),
			GoldPurity: item.GoldPurity,
			WeightGram: item.WeightGram,
		})
	}
	return out
}

func newValuedItems(items []exchange.ValuedItem) []valuedItemResponse {
	out := make([]valuedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, valuedItemResponse{
			GoldType:   string(item.GoldType),
			GoldPurity: item.GoldPurity,
			WeightGram: item.WeightGram,
			PerGram:    item.PerGram,
			Value:      item.Value,
		})
	}
	return out
}

// BuybackQuote values customer gold against today's buy-side board without
// creating anything.
func BuybackQuote(prices pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prices == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload buybackQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := prices.TodaySnapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := exchange.ValueBuyback(snapshot, toOldGoldItems(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buybackQuoteResponse{
			Date:  snapshot.Date(),
			Items: newValuedItems(valuation.Items),
			Total: valuation.Total,
		})
	}
}

// ExchangeQuote prices a trade-in: old gold at buy-side value against the
// already-priced new pieces. Positive difference means the customer pays.
func ExchangeQuote(prices pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prices == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload exchangeQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := prices.TodaySnapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := exchange.ValueBuyback(snapshot, toOldGoldItems(payload.OldItems))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, exchangeQuoteResponse{
			Date:         snapshot.Date(),
			OldItems:     newValuedItems(valuation.Items),
			OldGoldTotal: valuation.Total,
			NewGoldTotal: payload.NewGoldTotal,
			Difference:   exchange.Difference(valuation.Total, payload.NewGoldTotal),
		})
	}
}
