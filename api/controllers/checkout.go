package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	checkoutsvc "github.com/aurumid/goldpos-backend/internal/checkout"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type checkoutRequest struct {
	Type          string               `json:"type" validate:"required,oneof=sale exchange"`
	CustomerID    *uuid.UUID           `json:"customer_id"`
	BuybackItems  []buybackItemRequest `json:"buyback_items" validate:"dive"`
	Tax           int64                `json:"tax"`
	Notes         *string              `json:"notes"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=cash qris bank_transfer"`
	CashTendered  int64                `json:"cash_tendered"`
	ReferenceNo   *string              `json:"reference_no"`
	BankName      *string              `json:"bank_name"`
}

type checkoutResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Payment     paymentResponse     `json:"payment"`
}

// Checkout turns the active cart into a paid transaction.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		branchID, cartID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branchUUID, err := branchIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buybacks := make([]models.BuybackItem, 0, len(payload.BuybackItems))
		for _, item := range payload.BuybackItems {
			buybacks = append(buybacks, models.BuybackItem{
				GoldType:   enums.GoldType(item.GoldType),
				GoldPurity: item.GoldPurity,
				WeightGram: item.WeightGram,
				UnitPrice:  item.UnitPrice,
			})
		}

		result, err := svc.Execute(r.Context(), branchID, cartID, checkoutsvc.Input{
			Type:          enums.TransactionType(payload.Type),
			BranchID:      branchUUID,
			UserID:        userID,
			CustomerID:    payload.CustomerID,
			BuybackItems:  buybacks,
			Tax:           payload.Tax,
			Notes:         payload.Notes,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			CashTendered:  payload.CashTendered,
			ReferenceNo:   payload.ReferenceNo,
			BankName:      payload.BankName,
			Actor:         actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, checkoutError(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Transaction: newTransactionResponse(result.Transaction),
			Payment:     newPaymentResponse(result.Payment),
		})
	}
}

// checkoutError surfaces which stage failed so the terminal knows whether a
// transaction record was left behind.
func checkoutError(err error) error {
	stageErr, ok := checkoutsvc.AsStageError(err)
	if !ok {
		return err
	}

	details := map[string]any{"stage": string(stageErr.Stage)}
	if stageErr.TransactionID != nil {
		details["transaction_id"] = stageErr.TransactionID.String()
	}

	if typed := pkgerrors.As(err); typed != nil {
		return typed.WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout failed").WithDetails(details)
}
