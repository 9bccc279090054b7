package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	transactionssvc "github.com/aurumid/goldpos-backend/internal/transactions"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type transactionItemRequest struct {
	InventoryID  uuid.UUID `json:"inventory_id" validate:"required"`
	UnitPrice    int64     `json:"unit_price" validate:"required,gt=0"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
	GoldPriceRef *int64    `json:"gold_price_ref"`
}

type buybackItemRequest struct {
	GoldType   string          `json:"gold_type" validate:"required,oneof=LM UBS Lokal"`
	GoldPurity int             `json:"gold_purity" validate:"required"`
	WeightGram decimal.Decimal `json:"weight_gram" validate:"required"`
	UnitPrice  int64           `json:"unit_price" validate:"required"`
}

type createTransactionRequest struct {
	Type         string                   `json:"type" validate:"required,oneof=sale buyback exchange"`
	CustomerID   *uuid.UUID               `json:"customer_id"`
	Items        []transactionItemRequest `json:"items" validate:"dive"`
	BuybackItems []buybackItemRequest     `json:"buyback_items" validate:"dive"`
	Discount     int64                    `json:"discount"`
	Tax          int64                    `json:"tax"`
	Notes        *string                  `json:"notes"`
}

type paymentRequest struct {
	Method      string  `json:"method" validate:"required,oneof=cash qris bank_transfer"`
	Amount      int64   `json:"amount" validate:"required"`
	ReferenceNo *string `json:"reference_no"`
	BankName    *string `json:"bank_name"`
}

type voidTransactionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type transactionItemResponse struct {
	ID           uuid.UUID              `json:"id"`
	InventoryID  uuid.UUID              `json:"inventory_id"`
	Quantity     int                    `json:"quantity"`
	UnitPrice    int64                  `json:"unit_price"`
	Subtotal     int64                  `json:"subtotal"`
	GoldPriceRef *int64                 `json:"gold_price_ref,omitempty"`
	Inventory    *inventoryItemResponse `json:"inventory,omitempty"`
}

type buybackItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	GoldType   string          `json:"gold_type"`
	GoldPurity int             `json:"gold_purity"`
	WeightGram decimal.Decimal `json:"weight_gram"`
	UnitPrice  int64           `json:"unit_price"`
}

type paymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	Method        string     `json:"method"`
	Amount        int64      `json:"amount"`
	ReferenceNo   *string    `json:"reference_no,omitempty"`
	BankName      *string    `json:"bank_name,omitempty"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type transactionResponse struct {
	ID           uuid.UUID                 `json:"id"`
	BranchID     uuid.UUID                 `json:"branch_id"`
	UserID       uuid.UUID                 `json:"user_id"`
	CustomerID   *uuid.UUID                `json:"customer_id,omitempty"`
	InvoiceNo    string                    `json:"invoice_no"`
	Type         string                    `json:"type"`
	Subtotal     int64                     `json:"subtotal"`
	Discount     int64                     `json:"discount"`
	Tax          int64                     `json:"tax"`
	Total        int64                     `json:"total"`
	Notes        *string                   `json:"notes,omitempty"`
	Status       string                    `json:"status"`
	Customer     *customerResponse         `json:"customer,omitempty"`
	Items        []transactionItemResponse `json:"items"`
	BuybackItems []buybackItemResponse     `json:"buyback_items,omitempty"`
	Payments     []paymentResponse         `json:"payments,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
}

func newPaymentResponse(payment *models.Payment) paymentResponse {
	if payment == nil {
		return paymentResponse{}
	}
	return paymentResponse{
		ID:            payment.ID,
		TransactionID: payment.TransactionID,
		Method:        string(payment.Method),
		Amount:        payment.Amount,
		ReferenceNo:   payment.ReferenceNo,
		BankName:      payment.BankName,
		Status:        string(payment.Status),
		PaidAt:        payment.PaidAt,
	}
}

func newTransactionResponse(trx *models.Transaction) transactionResponse {
	if trx == nil {
		return transactionResponse{}
	}

	items := make([]transactionItemResponse, 0, len(trx.Items))
	for _, item := range trx.Items {
		row := transactionItemResponse{
			ID:           item.ID,
			InventoryID:  item.InventoryID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Subtotal:     item.Subtotal,
			GoldPriceRef: item.GoldPriceRef,
		}
		if item.Inventory != nil {
			inv := newInventoryItemResponse(item.Inventory)
			row.Inventory = &inv
		}
		items = append(items, row)
	}

	buybacks := make([]buybackItemResponse, 0, len(trx.BuybackItems))
	for _, item := range trx.BuybackItems {
		buybacks = append(buybacks, buybackItemResponse{
			ID:         item.ID,
			GoldType:   string(item.GoldType),
			GoldPurity: item.GoldPurity,
			WeightGram: item.WeightGram,
			UnitPrice:  item.UnitPrice,
		})
	}

	payments := make([]paymentResponse, 0, len(trx.Payments))
	for i := range trx.Payments {
		payments = append(payments, newPaymentResponse(&trx.Payments[i]))
	}

	resp := transactionResponse{
		ID:           trx.ID,
		BranchID:     trx.BranchID,
		UserID:       trx.UserID,
		CustomerID:   trx.CustomerID,
		InvoiceNo:    trx.InvoiceNo,
		Type:         string(trx.Type),
		Subtotal:     trx.Subtotal,
		Discount:     trx.Discount,
		Tax:          trx.Tax,
		Total:        trx.Total,
		Notes:        trx.Notes,
		Status:       string(trx.Status),
		Items:        items,
		BuybackItems: buybacks,
		Payments:     payments,
		CreatedAt:    trx.CreatedAt,
	}
	if trx.Customer != nil {
		customer := newCustomerResponse(trx.Customer)
		resp.Customer = &customer
	}
	return resp
}

func (r createTransactionRequest) toInput() ([]transactionssvc.ItemInput, []models.BuybackItem) {
	items := make([]transactionssvc.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, transactionssvc.ItemInput{
			InventoryID:  item.InventoryID,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			GoldPriceRef: item.GoldPriceRef,
		})
	}

	buybacks := make([]models.BuybackItem, 0, len(r.BuybackItems))
	for _, item := range r.BuybackItems {
		buybacks = append(buybacks, models.BuybackItem{
			GoldType:   enums.GoldType(item.GoldType),
			GoldPurity: item.GoldPurity,
			WeightGram: item.WeightGram,
			UnitPrice:  item.UnitPrice,
		})
	}
	return items, buybacks
}

// TransactionCreate records a transaction directly, without going through
// the cart flow. Used for buybacks and manual entries.
func TransactionCreate(svc transactionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		branchID, err := branchIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, buybacks := payload.toInput()
		trx, err := svc.Create(r.Context(), transactionssvc.CreateInput{
			Type:         enums.TransactionType(payload.Type),
			BranchID:     branchID,
			UserID:       userID,
			CustomerID:   payload.CustomerID,
			Items:        items,
			BuybackItems: buybacks,
			Discount:     payload.Discount,
			Tax:          payload.Tax,
			Notes:        payload.Notes,
			Actor:        actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newTransactionResponse(trx))
	}
}

// TransactionPay records the payment against a pending transaction.
func TransactionPay(svc transactionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		id, err := uuidParam(r, "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.ProcessPayment(r.Context(), transactionssvc.PaymentInput{
			TransactionID: id,
			Method:        enums.PaymentMethod(payload.Method),
			Amount:        payload.Amount,
			ReferenceNo:   payload.ReferenceNo,
			BankName:      payload.BankName,
			Actor:         actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// TransactionVoid reverses a completed transaction and releases its stock.
func TransactionVoid(svc transactionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		id, err := uuidParam(r, "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload voidTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trx, err := svc.Void(r.Context(), id, payload.Reason, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTransactionResponse(trx))
	}
}

func TransactionGet(svc transactionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		id, err := uuidParam(r, "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trx, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTransactionResponse(trx))
	}
}

func TransactionList(svc transactionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		filter := transactionssvc.ListFilter{Limit: intQuery(r, "limit", 0)}
		query := r.URL.Query()
		if v := query.Get("date_from"); v != "" {
			filter.DateFrom = &v
		}
		if v := query.Get("date_to"); v != "" {
			filter.DateTo = &v
		}
		if v := query.Get("type"); v != "" {
			trxType := enums.TransactionType(v)
			if !trxType.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid type"))
				return
			}
			filter.Type = &trxType
		}
		if v := query.Get("status"); v != "" {
			status := enums.TransactionStatus(v)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
				return
			}
			filter.Status = &status
		}

		transactions, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]transactionResponse, 0, len(transactions))
		for i := range transactions {
			out = append(out, newTransactionResponse(&transactions[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
