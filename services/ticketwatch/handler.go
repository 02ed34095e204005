package ticketwatch

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"railwatch/lib/scrapers/railway"
	"strconv"
)

func writeJson(w http.ResponseWriter, r *http.Request, value any) {
	w.Header().Set("content-type", "application/json")
	w.Header().Set("cache-control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("pragma", "no-cache")
	w.Header().Set("expires", "0")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.WarnContext(r.Context(), "write response", "err", err)
	}
}

func onlyGet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// Handler serves the latest search results on `/` and the alert log on
// `/alerts`.
func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", onlyGet(s.handleSearch))
	mux.HandleFunc("/alerts", onlyGet(s.handleAlerts))
	return mux
}

func (s Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	params := r.URL.Query()
	nocache, _ := strconv.ParseBool(params.Get("nocache"))
	trips := s.CheckTickets(r.Context(), Request{
		Query: railway.SearchQuery{
			FromCity:  params.Get("from_city"),
			ToCity:    params.Get("to_city"),
			SeatClass: params.Get("seat_class"),
			Date:      params.Get("date"),
		},
		TrainPrefix: params.Get("target_train_name"),
		Receiver:    params.Get("receiver_email"),
		NoCache:     nocache,
	})
	writeJson(w, r, trips)
}

func (s Service) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	alerts, err := s.Alerts(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "list alerts", "err", err)
		http.Error(w, "failed to list alerts", http.StatusInternalServerError)
		return
	}
	writeJson(w, r, alerts)
}
