package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/roomledger/internal/api"
	"github.com/mmynk/roomledger/internal/auth"
	"github.com/mmynk/roomledger/internal/export"
	"github.com/mmynk/roomledger/internal/ledger"
	"github.com/mmynk/roomledger/internal/metrics"
	"github.com/mmynk/roomledger/internal/middleware"
	"github.com/mmynk/roomledger/internal/storage"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router wires into the handlers.
type Deps struct {
	Ledger        *ledger.Service
	Users         storage.UserStore
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Validator     *api.Validator
	Metrics       *metrics.Metrics
	Health        Pinger
}

// NewRouter mounts the Connect services, the spreadsheet export and /healthz.
// Ledger and member procedures require a bearer token; the auth service
// accepts anonymous callers for Register and Login.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	logging := middleware.LoggingInterceptor(d.Metrics)
	authenticated := connect.WithInterceptors(middleware.RequireAuth(d.JWT), logging)

	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(NewLedgerService(d.Ledger, d.Validator), authenticated)
	r.PathPrefix(ledgerPath).Handler(ledgerHandler)

	memberPath, memberHandler := api.NewMemberServiceHandler(NewMemberService(d.Ledger, d.Validator), authenticated)
	r.PathPrefix(memberPath).Handler(memberHandler)

	authPath, authHandler := api.NewAuthServiceHandler(
		NewAuthService(d.Authenticator, d.JWT, d.Users, d.Validator),
		connect.WithInterceptors(middleware.OptionalAuth(d.JWT), logging),
	)
	r.PathPrefix(authPath).Handler(authHandler)

	exports := r.PathPrefix("/export").Subrouter()
	exports.Use(middleware.RequireAuthHTTP(d.JWT))
	exports.Handle("/expenses.xlsx", export.Handler(d.Ledger)).Methods(http.MethodGet)

	r.HandleFunc("/healthz", healthz(d.Health)).Methods(http.MethodGet)

	return r
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.Ping(r.Context()); err != nil {
				slog.Error("Health check failed", "error", err)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
