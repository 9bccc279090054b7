package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurumid/goldpos-backend/api/controllers"
	"github.com/aurumid/goldpos-backend/api/middleware"
	authsvc "github.com/aurumid/goldpos-backend/internal/auth"
	cartsvc "github.com/aurumid/goldpos-backend/internal/cart"
	checkoutsvc "github.com/aurumid/goldpos-backend/internal/checkout"
	customerssvc "github.com/aurumid/goldpos-backend/internal/customers"
	goldpricessvc "github.com/aurumid/goldpos-backend/internal/goldprices"
	inventorysvc "github.com/aurumid/goldpos-backend/internal/inventory"
	pricingsvc "github.com/aurumid/goldpos-backend/internal/pricing"
	reportssvc "github.com/aurumid/goldpos-backend/internal/reports"
	transactionssvc "github.com/aurumid/goldpos-backend/internal/transactions"
	userssvc "github.com/aurumid/goldpos-backend/internal/users"
	"github.com/aurumid/goldpos-backend/pkg/config"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

// Services carries every domain service the router mounts.
type Services struct {
	Auth         authsvc.Service
	Users        userssvc.Service
	GoldPrices   goldpricessvc.Service
	Pricing      pricingsvc.Service
	Inventory    inventorysvc.Service
	Customers    customerssvc.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Transactions transactionssvc.Service
	Reports      reportssvc.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, dbP dbPinger, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/gold-prices", func(r chi.Router) {
			r.Get("/", controllers.GoldPriceToday(svcs.GoldPrices, logg))
			r.Get("/history", controllers.GoldPriceHistory(svcs.GoldPrices, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).Post("/", controllers.GoldPriceSet(svcs.GoldPrices, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(svcs.Inventory, logg))
			r.Post("/", controllers.InventoryAdd(svcs.Inventory, logg))
			r.Get("/stats", controllers.InventoryStats(svcs.Inventory, logg))
			r.Get("/scan/{barcode}", controllers.InventoryScan(svcs.Inventory, logg))
			r.Get("/{itemID}", controllers.InventoryGet(svcs.Inventory, logg))
			r.Patch("/{itemID}/location", controllers.InventoryUpdateLocation(svcs.Inventory, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Inventory, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).Post("/", controllers.ProductCreate(svcs.Inventory, logg))
		})
		r.Get("/categories", controllers.CategoryList(svcs.Inventory, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerSearch(svcs.Customers, logg))
			r.Post("/", controllers.CustomerCreate(svcs.Customers, logg))
			r.Get("/{customerID}", controllers.CustomerGet(svcs.Customers, logg))
			r.Put("/{customerID}", controllers.CustomerUpdate(svcs.Customers, logg))
		})

		r.Route("/cart/{cartID}", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Delete("/items/{inventoryID}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Patch("/items/{inventoryID}", controllers.CartUpdateQuantity(svcs.Cart, logg))
			r.Patch("/discount", controllers.CartSetDiscount(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/buyback", controllers.BuybackQuote(svcs.Pricing, logg))
			r.Post("/exchange", controllers.ExchangeQuote(svcs.Pricing, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(svcs.Transactions, logg))
			r.Post("/", controllers.TransactionCreate(svcs.Transactions, logg))
			r.Get("/{transactionID}", controllers.TransactionGet(svcs.Transactions, logg))
			r.Post("/{transactionID}/payment", controllers.TransactionPay(svcs.Transactions, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).Post("/{transactionID}/void", controllers.TransactionVoid(svcs.Transactions, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleOwner, logg))
			r.Get("/dashboard", controllers.ReportDashboard(svcs.Reports, logg))
			r.Get("/sales", controllers.ReportSales(svcs.Reports, logg))
			r.Get("/daily", controllers.ReportDaily(svcs.Reports, logg))
			r.Get("/stock", controllers.ReportStock(svcs.Reports, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleOwner, logg))
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Post("/", controllers.UserCreate(svcs.Users, logg))
			r.Get("/{userID}", controllers.UserGet(svcs.Users, logg))
			r.Post("/{userID}/password", controllers.UserChangePassword(svcs.Users, logg))
			r.Patch("/{userID}/active", controllers.UserSetActive(svcs.Users, logg))
		})
	})

	return r
}
