// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fairly-cast/cliparse"
	"github.com/danielhkuo/fairly-cast/election"
	"github.com/danielhkuo/fairly-cast/handlers"
	"github.com/danielhkuo/fairly-cast/mailroom"
	"github.com/danielhkuo/fairly-cast/middleware"
	"github.com/danielhkuo/fairly-cast/notify"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, mgr *election.Manager, dispatcher *notify.Dispatcher) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	mailRouter := mailroom.NewRouter(cfg.ReplyAllowlist, dispatcher)
	electionHandler := handlers.NewElectionHandler(mgr, dispatcher, cfg)
	nominationHandler := handlers.NewNominationHandler(mgr, cfg)
	ballotHandler := handlers.NewBallotHandler(mgr, cfg)
	resultsHandler := handlers.NewResultsHandler(mgr, cfg)
	adminHandler := handlers.NewAdminHandler(mgr, cfg)
	inboundHandler := handlers.NewInboundHandler(mailRouter)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("DB DOWN"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election state (public)
	mux.HandleFunc("GET /election/state", middleware.WithLogging(electionHandler.GetState))
	mux.HandleFunc("GET /election/stream", middleware.WithLogging(electionHandler.Stream))

	// Nominations (authenticated voters)
	mux.HandleFunc("POST /nomination", middleware.WithLogging(nominationHandler.Submit))
	mux.HandleFunc("DELETE /nomination", middleware.WithLogging(nominationHandler.Delete))
	mux.HandleFunc("GET /nomination/{voterId}", middleware.WithLogging(nominationHandler.Get))

	// Candidate listing (public once nominations close)
	mux.HandleFunc("GET /roles/{role}/nominations", middleware.WithLogging(nominationHandler.ListForRole))

	// Ballots (authenticated voters)
	mux.HandleFunc("GET /ballot", middleware.WithLogging(ballotHandler.GetPaper))
	mux.HandleFunc("POST /ballot", middleware.WithLogging(ballotHandler.Submit))

	// Results
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.Get))

	// Election administration (admin token required)
	mux.HandleFunc("POST /admin/election", middleware.WithLogging(adminHandler.CreateElection))
	mux.HandleFunc("PUT /admin/election/members", middleware.WithLogging(adminHandler.SetMembers))
	mux.HandleFunc("POST /admin/election/advance", middleware.WithLogging(adminHandler.Advance))
	mux.HandleFunc("PUT /admin/election/state", middleware.WithLogging(adminHandler.Force))

	// Inbound mail webhook
	mux.HandleFunc("POST /inbound/email", middleware.WithLogging(inboundHandler.Receive))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fairly-cast API v1"))
	})

	return mux
}
