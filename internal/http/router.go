package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"mystock-backend/internal/auth"
)

func NewRouter(handler *Handler, mgr *auth.Manager, log *logrus.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(Timeout)
	r.Use(Metrics)
	r.Use(CORS(allowedOrigins))

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", handler.Register)
		r.Post("/users/login", handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(mgr))

			r.Get("/users/me", handler.Me)

			r.Get("/products", handler.ListProducts)
			r.Post("/products", handler.CreateProduct)
			r.Get("/products/{id}", handler.GetProduct)
			r.Patch("/products/{id}", handler.PatchProduct)
			r.Put("/products/{id}/pricing", handler.UpdateProductPricing)
			r.Delete("/products/{id}", handler.DeleteProduct)

			r.Get("/containers", handler.ListContainers)
			r.Post("/containers", handler.CreateContainer)
			r.Get("/containers/{id}", handler.GetContainer)
			r.Patch("/containers/{id}", handler.PatchContainer)
			r.Delete("/containers/{id}", handler.DeleteContainer)

			r.Get("/contacts", handler.ListContacts)
			r.Post("/contacts", handler.CreateContact)
			r.Get("/contacts/{id}", handler.GetContact)
			r.Patch("/contacts/{id}", handler.PatchContact)
			r.Delete("/contacts/{id}", handler.DeleteContact)

			r.Post("/transactions/sales", handler.CreateSale)
			r.Post("/transactions/purchases", handler.CreatePurchase)
			r.Get("/transactions", handler.ListTransactions)
			r.Get("/transactions/summary", handler.TransactionSummary)
			r.Get("/transactions/outstanding", handler.ListOutstanding)
			r.Get("/transactions/{id}", handler.GetTransaction)
			r.Delete("/transactions/{id}", handler.DeleteTransaction)
			r.Post("/transactions/{id}/payments", handler.CreatePayment)
			r.Get("/transactions/{id}/payments", handler.ListPayments)
			r.Get("/transactions/{id}/invoice", handler.TransactionInvoice)

			r.Get("/inventory-logs", handler.ListInventoryLogs)
			r.Get("/dashboard", handler.Dashboard)

			r.Get("/reports/transactions.xlsx", handler.TransactionsExcel)

			r.Get("/settings/company", handler.GetCompanySettings)
			r.Put("/settings/company", handler.UpdateCompanySettings)
		})
	})

	return r
}
