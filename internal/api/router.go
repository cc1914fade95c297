package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jspires/wordduel/internal/middleware"
	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/services/stats"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	Logger       *slog.Logger
	StatsService stats.ServiceInterface
	WSHandler    http.Handler
}

// NewRouter creates the HTTP router: health, read-only stats, and the
// websocket upgrade endpoint. All game traffic flows over the websocket.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{player}/stats", handleStats(cfg.StatsService)).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{player}/results", handleResults(cfg.StatsService)).Methods(http.MethodGet)
	r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = middleware.Logging(cfg.Logger)(handler)
	handler = middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)(handler)

	return handler
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleStats(svc stats.ServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := model.PlayerID(mux.Vars(r)["player"])

		st, err := svc.Stats(r.Context(), player)
		if err != nil {
			if errors.Is(err, model.ErrStatsNotFound) {
				// A player with no recorded games has empty stats, not a 404
				writeJSON(w, http.StatusOK, &model.PlayerStats{Player: player})
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleResults(svc stats.ServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := model.PlayerID(mux.Vars(r)["player"])

		results, err := svc.Results(r.Context(), player)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load results")
			return
		}
		if results == nil {
			results = []*model.GameResult{}
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
