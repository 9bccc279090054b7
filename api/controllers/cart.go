package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/middleware"
	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	cartsvc "github.com/aurumid/goldpos-backend/internal/cart"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type cartAddItemRequest struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

type cartDiscountRequest struct {
	Discount *int64 `json:"discount" validate:"required"`
}

type cartResponse struct {
	CartID string        `json:"cart_id"`
	Cart   *cartsvc.Cart `json:"cart"`
}

type cartAddResponse struct {
	CartID  string             `json:"cart_id"`
	Cart    *cartsvc.Cart      `json:"cart"`
	Outcome cartsvc.AddOutcome `json:"outcome"`
}

func cartScope(r *http.Request) (branchID, cartID string, err error) {
	branchID = middleware.BranchIDFromContext(r.Context())
	if branchID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeForbidden, "branch context missing")
	}
	cartID = strings.TrimSpace(chi.URLParam(r, "cartID"))
	if cartID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return branchID, cartID, nil
}

// CartGet returns the active cart, an empty one when nothing was added yet.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), branchID, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{CartID: cartID, Cart: cart})
	}
}

// CartAddItem rings one scanned piece into the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartAddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, outcome, err := svc.AddItem(r.Context(), branchID, cartID, payload.InventoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartAddResponse{CartID: cartID, Cart: cart, Outcome: outcome})
	}
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventoryID, err := uuidParam(r, "inventoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), branchID, cartID, inventoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{CartID: cartID, Cart: cart})
	}
}

func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventoryID, err := uuidParam(r, "inventoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateItemQuantity(r.Context(), branchID, cartID, inventoryID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{CartID: cartID, Cart: cart})
	}
}

func CartSetDiscount(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.SetDiscount(r.Context(), branchID, cartID, *payload.Discount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{CartID: cartID, Cart: cart})
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), branchID, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
