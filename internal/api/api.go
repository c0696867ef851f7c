// Package api serves menus over HTTP while the daemon runs.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bandex/internal/cli"
	"bandex/internal/collector"
	"bandex/internal/config"
	"bandex/internal/model"
)

// Handler answers menu queries with a fresh cache per request.
type Handler struct {
	fetcher collector.Fetcher
	cfg     *config.Config
	logger  *zap.SugaredLogger
	version string

	// Now picks "today" when no weekday is given.
	Now func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(fetcher collector.Fetcher, cfg *config.Config, logger *zap.SugaredLogger, version string) *Handler {
	return &Handler{fetcher: fetcher, cfg: cfg, logger: logger, version: version, Now: time.Now}
}

// Router mounts the health check and the /api routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/menus", h.menus)
		r.Get("/restaurants", h.restaurants)
	})
	return r
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: h.Now().UTC(), Version: h.version})
}

// MenuItem is one (restaurant, meal) slot of a day.
type MenuItem struct {
	RestaurantID model.RestaurantID `json:"restaurant_id"`
	Restaurant   string             `json:"restaurant,omitempty"`
	Meal         string             `json:"meal"`
	Content      string             `json:"content,omitempty"`
	Closed       bool               `json:"closed"`
	Calories     *int               `json:"calories,omitempty"`
	Observation  string             `json:"observation,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// MenusResponse lists the menus of one weekday.
type MenusResponse struct {
	Weekday string     `json:"weekday"`
	Menus   []MenuItem `json:"menus"`
}

// menus handles GET /api/menus?weekday=1..7&meal=almoco|jantar.
func (h *Handler) menus(w http.ResponseWriter, r *http.Request) {
	day := h.Now().Weekday()
	if raw := r.URL.Query().Get("weekday"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil {
			day, err = cli.ParseWeekday(n)
		}
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "weekday must be an integer between 1 (Monday) and 7 (Sunday)")
			return
		}
	}
	meals, ok := parseMeal(r.URL.Query().Get("meal"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "meal must be almoco or jantar")
		return
	}

	cache := collector.NewCache(h.fetcher, h.logger)
	resp := MenusResponse{Weekday: model.WeekdayName(day), Menus: []MenuItem{}}
	for _, meal := range meals {
		for _, rest := range h.cfg.Restaurants {
			if err := r.Context().Err(); err != nil {
				return
			}
			item := MenuItem{RestaurantID: rest.ID, Meal: meal.String()}
			entry, err := cache.Lookup(r.Context(), rest.ID, meal, day)
			switch {
			case errors.Is(err, collector.ErrNoMenu):
				item.Error = "no menu for this day"
			case err != nil:
				item.Error = "restaurant unavailable"
			default:
				item.Restaurant = entry.Name
				item.Content = entry.Menu.Content
				item.Closed = entry.Menu.Closed()
				item.Calories = entry.Menu.Calories
				item.Observation = entry.Menu.Observation
			}
			resp.Menus = append(resp.Menus, item)
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func parseMeal(raw string) ([]model.MealType, bool) {
	switch strings.ToLower(raw) {
	case "":
		return model.MealTypes, true
	case "almoco", "almoço", "lunch", "a":
		return []model.MealType{model.Lunch}, true
	case "jantar", "dinner", "j":
		return []model.MealType{model.Dinner}, true
	default:
		return nil, false
	}
}

func (h *Handler) restaurants(w http.ResponseWriter, r *http.Request) {
	found, err := collector.Discover(r.Context(), h.fetcher, 1, collector.DiscoverLimit)
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "restaurant discovery interrupted")
		return
	}
	if found == nil {
		found = []model.Restaurant{}
	}
	h.writeJSON(w, http.StatusOK, found)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("failed to encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs every request with its status and duration.
func requestLogger(logger *zap.SugaredLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
