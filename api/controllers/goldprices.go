package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	goldpricessvc "github.com/aurumid/goldpos-backend/internal/goldprices"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type setGoldPriceRequest struct {
	GoldType  string  `json:"gold_type" validate:"required,oneof=LM UBS Lokal"`
	Purity    int     `json:"purity" validate:"required"`
	BuyPrice  int64   `json:"buy_price" validate:"required,gt=0"`
	SellPrice int64   `json:"sell_price" validate:"required,gt=0"`
	Source    *string `json:"source"`
}

type goldPriceResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	GoldType  string    `json:"gold_type"`
	Purity    int       `json:"purity"`
	BuyPrice  int64     `json:"buy_price"`
	SellPrice int64     `json:"sell_price"`
	Source    *string   `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newGoldPriceResponse(price *models.GoldPrice) goldPriceResponse {
	if price == nil {
		return goldPriceResponse{}
	}
	return goldPriceResponse{
		ID:        price.ID,
		Date:      price.Date,
		GoldType:  string(price.GoldType),
		Purity:    price.Purity,
		BuyPrice:  price.BuyPrice,
		SellPrice: price.SellPrice,
		Source:    price.Source,
		CreatedAt: price.CreatedAt,
	}
}

func newGoldPriceList(prices []models.GoldPrice) []goldPriceResponse {
	out := make([]goldPriceResponse, 0, len(prices))
	for i := range prices {
		out = append(out, newGoldPriceResponse(&prices[i]))
	}
	return out
}

// GoldPriceSet upserts today's quote for one (type, purity) pair.
func GoldPriceSet(svc goldpricessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gold price service unavailable"))
			return
		}

		var payload setGoldPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := svc.SetPrice(r.Context(), goldpricessvc.SetPriceInput{
			GoldType:  enums.GoldType(payload.GoldType),
			Purity:    payload.Purity,
			BuyPrice:  payload.BuyPrice,
			SellPrice: payload.SellPrice,
			Source:    payload.Source,
			Actor:     actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newGoldPriceResponse(price))
	}
}

// GoldPriceToday lists the full quote board for today, optionally for an
// explicit ?date=YYYY-MM-DD.
func GoldPriceToday(svc goldpricessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gold price service unavailable"))
			return
		}

		var (
			prices []models.GoldPrice
			err    error
		)
		if date := r.URL.Query().Get("date"); date != "" {
			prices, err = svc.PricesForDate(r.Context(), date)
		} else {
			prices, err = svc.TodayPrices(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newGoldPriceList(prices))
	}
}

// GoldPriceHistory returns recent quotes for one (type, purity) pair,
// newest first.
func GoldPriceHistory(svc goldpricessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gold price service unavailable"))
			return
		}

		goldType := enums.GoldType(r.URL.Query().Get("gold_type"))
		purity := intQuery(r, "purity", 0)
		days := intQuery(r, "days", 0)

		prices, err := svc.History(r.Context(), goldType, purity, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newGoldPriceList(prices))
	}
}
