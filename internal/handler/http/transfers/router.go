package transfers_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.uber.org/zap"

	"ledger/internal/app/transfers"
)

func RegisterRoutes(r chi.Router, s transfers.TransferService, l *zap.Logger) {
	handler := NewTransferHandler(s, l.With(zap.String("component", "TransferHTTPHandler")))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ledger service is healthy!"))
		})
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", handler.OpenAccountHandler)
		r.Get("/{id}", handler.GetAccountHandler)
		r.Post("/{id}/withdrawals", handler.WithdrawHandler)
	})

	r.Post("/transfers", handler.TransferHandler)
}
