package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/api/responses"
	"github.com/aurumid/goldpos-backend/api/validators"
	inventorysvc "github.com/aurumid/goldpos-backend/internal/inventory"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	SKU         *string         `json:"sku"`
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description"`
	GoldType    string          `json:"gold_type" validate:"required,oneof=LM UBS Lokal"`
	GoldPurity  int             `json:"gold_purity" validate:"required"`
	WeightGram  decimal.Decimal `json:"weight_gram" validate:"required"`
	LaborCost   int64           `json:"labor_cost"`
}

type productResponse struct {
	ID          uuid.UUID         `json:"id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	SKU         *string           `json:"sku,omitempty"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	GoldType    string            `json:"gold_type"`
	GoldPurity  int               `json:"gold_purity"`
	WeightGram  decimal.Decimal   `json:"weight_gram"`
	LaborCost   int64             `json:"labor_cost"`
	IsActive    bool              `json:"is_active"`
	Category    *categoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	if product == nil {
		return productResponse{}
	}
	resp := productResponse{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		GoldType:    string(product.GoldType),
		GoldPurity:  product.GoldPurity,
		WeightGram:  product.WeightGram,
		LaborCost:   product.LaborCost,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
	if product.Category != nil {
		resp.Category = &categoryResponse{
			ID:          product.Category.ID,
			Name:        product.Category.Name,
			Description: product.Category.Description,
		}
	}
	return resp
}

// ProductCreate adds a catalog entry pieces are minted from.
func ProductCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), inventorysvc.CreateProductInput{
			CategoryID:  payload.CategoryID,
			SKU:         payload.SKU,
			Name:        payload.Name,
			Description: payload.Description,
			GoldType:    enums.GoldType(payload.GoldType),
			GoldPurity:  payload.GoldPurity,
			WeightGram:  payload.WeightGram,
			LaborCost:   payload.LaborCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

func ProductList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, newProductResponse(&products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func CategoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			out = append(out, categoryResponse{
				ID:          category.ID,
				Name:        category.Name,
				Description: category.Description,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
