package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	inventorysvc "github.com/aurumid/goldpos-backend/internal/inventory"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type addInventoryItemRequest struct {
	ProductID     uuid.UUID  `json:"product_id" validate:"required"`
	Barcode       string     `json:"barcode"`
	Location      *string    `json:"location"`
	PurchasePrice int64      `json:"purchase_price" validate:"required,gt=0"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	Supplier      *string    `json:"supplier"`
	Notes         *string    `json:"notes"`
}

type updateLocationRequest struct {
	Location string `json:"location" validate:"required"`
}

type inventoryItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	BranchID      uuid.UUID        `json:"branch_id"`
	Barcode       string           `json:"barcode"`
	Status        string           `json:"status"`
	Location      *string          `json:"location,omitempty"`
	PurchasePrice int64            `json:"purchase_price"`
	PurchaseDate  *time.Time       `json:"purchase_date,omitempty"`
	Supplier      *string          `json:"supplier,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	SoldAt        *time.Time       `json:"sold_at,omitempty"`
	Product       *productResponse `json:"product,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func newInventoryItemResponse(item *models.InventoryItem) inventoryItemResponse {
	if item == nil {
		return inventoryItemResponse{}
	}
	resp := inventoryItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		BranchID:      item.BranchID,
		Barcode:       item.Barcode,
		Status:        string(item.Status),
		Location:      item.Location,
		PurchasePrice: item.PurchasePrice,
		PurchaseDate:  item.PurchaseDate,
		Supplier:      item.Supplier,
		Notes:         item.Notes,
		SoldAt:        item.SoldAt,
		CreatedAt:     item.CreatedAt,
	}
	if item.Product != nil {
		product := newProductResponse(item.Product)
		resp.Product = &product
	}
	return resp
}

// InventoryAdd registers one physical piece under the caller's branch.
func InventoryAdd(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := branchIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddItem(r.Context(), inventorysvc.AddItemInput{
			ProductID:     payload.ProductID,
			BranchID:      branchID,
			Barcode:       payload.Barcode,
			Location:      payload.Location,
			PurchasePrice: payload.PurchasePrice,
			PurchaseDate:  payload.PurchaseDate,
			Supplier:      payload.Supplier,
			Notes:         payload.Notes,
			Actor:         actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newInventoryItemResponse(item))
	}
}

func InventoryGet(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newInventoryItemResponse(item))
	}
}

// InventoryScan resolves a barcode to its piece, the primary POS lookup.
func InventoryScan(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		barcode := strings.TrimSpace(chi.URLParam(r, "barcode"))
		item, err := svc.ScanBarcode(r.Context(), barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newInventoryItemResponse(item))
	}
}

func InventoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		filter := inventorysvc.ListFilter{Limit: intQuery(r, "limit", 0)}
		if branchID, err := branchIDFromContext(r); err == nil {
			filter.BranchID = &branchID
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := enums.InventoryStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
				return
			}
			filter.Status = &status
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]inventoryItemResponse, 0, len(items))
		for i := range items {
			out = append(out, newInventoryItemResponse(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func InventoryUpdateLocation(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateLocation(r.Context(), id, payload.Location); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"location": payload.Location})
	}
}

func InventoryStats(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := branchIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
