package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	customerssvc "github.com/aurumid/goldpos-backend/internal/customers"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type upsertCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	NIK     *string `json:"nik"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type customerResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Phone             *string   `json:"phone,omitempty"`
	NIK               *string   `json:"nik,omitempty"`
	Address           *string   `json:"address,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	TotalTransactions int       `json:"total_transactions"`
	CreatedAt         time.Time `json:"created_at"`
}

func newCustomerResponse(customer *models.Customer) customerResponse {
	if customer == nil {
		return customerResponse{}
	}
	return customerResponse{
		ID:                customer.ID,
		Name:              customer.Name,
		Phone:             customer.Phone,
		NIK:               customer.NIK,
		Address:           customer.Address,
		Notes:             customer.Notes,
		TotalTransactions: customer.TotalTransactions,
		CreatedAt:         customer.CreatedAt,
	}
}

// CustomerCreate registers a walk-in customer.
func CustomerCreate(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		var payload upsertCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Upsert(r.Context(), customerssvc.UpsertInput{
			Name:    payload.Name,
			Phone:   payload.Phone,
			NIK:     payload.NIK,
			Address: payload.Address,
			Notes:   payload.Notes,
			Actor:   actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCustomerResponse(customer))
	}
}

// CustomerUpdate edits an existing customer by id.
func CustomerUpdate(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := uuidParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Upsert(r.Context(), customerssvc.UpsertInput{
			ID:      &id,
			Name:    payload.Name,
			Phone:   payload.Phone,
			NIK:     payload.NIK,
			Address: payload.Address,
			Notes:   payload.Notes,
			Actor:   actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCustomerResponse(customer))
	}
}

func CustomerGet(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := uuidParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCustomerResponse(customer))
	}
}

// CustomerSearch filters the book by name or phone; a blank query lists.
func CustomerSearch(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customers, err := svc.Search(r.Context(), r.URL.Query().Get("q"), intQuery(r, "limit", 0))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]customerResponse, 0, len(customers))
		for i := range customers {
			out = append(out, newCustomerResponse(&customers[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
