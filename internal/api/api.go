// Package api exposes the routing engine over HTTP: GET /api/v1/routes,
// with query-param parsing, JSON responses, and the engine's error and
// status values mapped onto HTTP status codes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/antigravity/gridrail/internal/engine"
	"github.com/antigravity/gridrail/internal/metrics"
)

// Handler wires an *engine.Engine behind the HTTP query surface.
type Handler struct {
	Engine *engine.Engine
}

// NewHandler constructs a Handler for e.
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{Engine: e}
}

// routeResponse is the JSON envelope returned from GetRoutes: the routes
// list plus the engine's terminal status, carrying the engine's own
// "never throws for NO_ROUTE/BUDGET_EXHAUSTED" contract all the way out to
// callers.
type routeResponse struct {
	Status string          `json:"status"`
	Routes []routeEnvelope `json:"routes"`
}

type routeEnvelope struct {
	OriginCity      string       `json:"origin_city"`
	DestinationCity string       `json:"destination_city"`
	TotalPrice      int          `json:"total_price"`
	TotalTime       int          `json:"total_time"`
	TransferCount   int          `json:"transfer_count"`
	Legs            []legPayload `json:"legs"`
}

type legPayload struct {
	ID                      string `json:"id"`
	From                    string `json:"from"`
	To                      string `json:"to"`
	IsTransfer              bool   `json:"is_transfer"`
	Price                   int    `json:"price"`
	AbsoluteDepartureMinute int    `json:"absolute_departure_minute"`
}

// GetRoutes handles GET /api/v1/routes?from=<city>&to=<city>&criterion=<time|price|transfers>&k=<n>.
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	k := 1
	if ks := q.Get("k"); ks != "" {
		parsed, err := strconv.Atoi(ks)
		if err != nil {
			http.Error(w, `{"error":"k must be an integer"}`, http.StatusBadRequest)
			return
		}
		k = parsed
	}

	criterion := engine.Criterion(q.Get("criterion"))
	if criterion == "" {
		criterion = engine.Time
	}

	query := engine.Query{
		OriginCity:      q.Get("from"),
		DestinationCity: q.Get("to"),
		Criterion:       criterion,
		K:               k,
	}

	start := time.Now()
	result, err := h.Engine.KShortest(r.Context(), query)
	metrics.QueryDuration.WithLabelValues(string(criterion)).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "ERROR"
		switch {
		case errors.Is(err, engine.ErrInvalidQuery):
			status = "INVALID_QUERY"
		case errors.Is(err, engine.ErrUnknownCity):
			status = "UNKNOWN_CITY"
		}
		metrics.QueriesTotal.WithLabelValues(string(criterion), status).Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	metrics.QueriesTotal.WithLabelValues(string(criterion), string(result.Status)).Inc()

	resp := routeResponse{Status: string(result.Status), Routes: make([]routeEnvelope, 0, len(result.Routes))}
	for _, route := range result.Routes {
		legs := make([]legPayload, len(route.Legs))
		for i, l := range route.Legs {
			legs[i] = legPayload{
				ID:                      l.ID,
				From:                    string(l.From),
				To:                      string(l.To),
				IsTransfer:              l.IsTransfer(),
				Price:                   l.Price,
				AbsoluteDepartureMinute: l.AbsoluteDepartureMinute,
			}
		}
		resp.Routes = append(resp.Routes, routeEnvelope{
			OriginCity:      route.OriginCity,
			DestinationCity: route.DestinationCity,
			TotalPrice:      route.TotalPrice,
			TotalTime:       route.TotalTime,
			TransferCount:   route.TransferCount,
			Legs:            legs,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Health reports service liveness, independent of database connectivity;
// the only database check is cmd/server's one-off Ping at startup.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","service":"gridrail"}`))
}
