package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/middleware"
	checkoutsvc "github.com/aurumid/goldpos-backend/internal/checkout"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
}

func (s stubCheckoutService) Execute(ctx context.Context, branchID, cartID string, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func checkoutTestRequest(t *testing.T) *http.Request {
	t.Helper()
	body := `{"type":"sale","payment_method":"qris"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/terminal-1/checkout", strings.NewReader(body))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("cartID", "terminal-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	ctx = middleware.WithBranchID(ctx, uuid.NewString())
	return req.WithContext(ctx)
}

func TestCheckoutSuccessReturnsTransactionAndPayment(t *testing.T) {
	trxID := uuid.New()
	svc := stubCheckoutService{result: &checkoutsvc.Result{
		Transaction: &models.Transaction{
			ID:        trxID,
			InvoiceNo: "INV-20260901-0001",
			Type:      enums.TransactionTypeSale,
			Total:     5_000_000,
			Status:    enums.TransactionStatusCompleted,
			CreatedAt: time.Now(),
		},
		Payment: &models.Payment{
			ID:            uuid.New(),
			TransactionID: trxID,
			Method:        enums.PaymentMethodQRIS,
			Amount:        5_000_000,
			Status:        enums.PaymentStatusSuccess,
		},
	}}

	resp := httptest.NewRecorder()
	Checkout(svc, nil)(resp, checkoutTestRequest(t))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Transaction struct {
				InvoiceNo string `json:"invoice_no"`
			} `json:"transaction"`
			Payment struct {
				Amount int64 `json:"amount"`
			} `json:"payment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Transaction.InvoiceNo != "INV-20260901-0001" {
		t.Fatalf("unexpected invoice %q", envelope.Data.Transaction.InvoiceNo)
	}
	if envelope.Data.Payment.Amount != 5_000_000 {
		t.Fatalf("unexpected amount %d", envelope.Data.Payment.Amount)
	}
}

func TestCheckoutPaymentStageFailureNamesTransaction(t *testing.T) {
	trxID := uuid.New()
	svc := stubCheckoutService{err: &checkoutsvc.StageError{
		Stage:         checkoutsvc.StageProcessPayment,
		TransactionID: &trxID,
		Err:           pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is not pending"),
	}}

	resp := httptest.NewRecorder()
	Checkout(svc, nil)(resp, checkoutTestRequest(t))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["stage"] != string(checkoutsvc.StageProcessPayment) {
		t.Fatalf("expected payment stage in details, got %v", envelope.Error.Details)
	}
	if envelope.Error.Details["transaction_id"] != trxID.String() {
		t.Fatalf("expected transaction id in details, got %v", envelope.Error.Details)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	body := `{"type":"sale","payment_method":"crypto"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/terminal-1/checkout", strings.NewReader(body))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("cartID", "terminal-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	ctx = middleware.WithBranchID(ctx, uuid.NewString())

	resp := httptest.NewRecorder()
	Checkout(stubCheckoutService{}, nil)(resp, req.WithContext(ctx))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
