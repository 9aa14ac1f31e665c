// Package stubapi is a deterministic stand-in for the booking backend's HTTP
// contract. It serves a fixed provider roster and reports an hour as taken
// once an appointment is stored for it.
package stubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

// Config describes the roster and opening hours served by the stub.
type Config struct {
	Providers []scheduling.Provider
	// OpenHour and CloseHour bound the bookable hours, both inclusive.
	OpenHour  int
	CloseHour int
	Location  *time.Location
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	// AllowedOrigins feeds the CORS policy; empty allows any origin.
	AllowedOrigins []string
	// RateLimit caps requests per second per client IP. Zero disables it.
	RateLimit int
}

var validate = validator.New()

type createAppointmentRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
}

// DefaultProviders is the roster served when none is configured.
func DefaultProviders() []scheduling.Provider {
	return []scheduling.Provider{
		{ID: "c4b1f3a0-8d0e-4f5e-9b59-1a2b3c4d5e01", Name: "Ana Souza", AvatarURL: "https://avatars.example.com/ana.png"},
		{ID: "c4b1f3a0-8d0e-4f5e-9b59-1a2b3c4d5e02", Name: "Bruno Lima", AvatarURL: "https://avatars.example.com/bruno.png"},
		{ID: "c4b1f3a0-8d0e-4f5e-9b59-1a2b3c4d5e03", Name: "Carla Dias", AvatarURL: "https://avatars.example.com/carla.png"},
	}
}

// Server handles the stub booking API routes.
type Server struct {
	cfg    Config
	store  Store
	logger *logging.Logger
}

// ErrInvalidOpeningHours is returned for a window outside 0..23 or with
// OpenHour after CloseHour.
var ErrInvalidOpeningHours = errors.New("stubapi: opening hours must satisfy 0 <= open <= close <= 23")

// NewServer constructs a stub server. A zero Config serves a midnight-only
// window; callers pick the opening hours explicitly.
func NewServer(cfg Config, store Store, logger *logging.Logger) (*Server, error) {
	if store == nil {
		panic("stubapi: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders()
	}
	if cfg.OpenHour < 0 || cfg.CloseHour > 23 || cfg.OpenHour > cfg.CloseHour {
		return nil, fmt.Errorf("%w: got %d..%d", ErrInvalidOpeningHours, cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return &Server{cfg: cfg, store: store, logger: logger}, nil
}

// Routes returns the router for the stub API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Second))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.MetricsHandler != nil {
		r.Handle("/metrics", s.cfg.MetricsHandler)
	}
	r.Get("/providers", s.ListProviders)
	r.Get("/providers/{providerID}/day-availability", s.DayAvailability)
	r.Post("/appointments", s.CreateAppointment)
	return r
}

// ListProviders handles GET /providers
func (s *Server) ListProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Providers)
}

// DayAvailability handles GET /providers/{providerID}/day-availability
func (s *Server) DayAvailability(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if !s.knownProvider(providerID) {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}

	day, err := parseDayQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booked, err := s.store.BookedHours(r.Context(), providerID, day)
	if err != nil {
		s.logger.Error("failed to load booked hours", "error", err, "provider_id", providerID)
		writeError(w, http.StatusInternalServerError, "failed to load availability")
		return
	}

	items := make([]scheduling.AvailabilityItem, 0, s.cfg.CloseHour-s.cfg.OpenHour+1)
	for hour := s.cfg.OpenHour; hour <= s.cfg.CloseHour; hour++ {
		items = append(items, scheduling.AvailabilityItem{Hour: hour, Available: !booked[hour]})
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateAppointment handles POST /appointments
func (s *Server) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "provider_id and date are required")
		return
	}
	if !s.knownProvider(req.ProviderID) {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}
	at, err := time.ParseInLocation(scheduling.BookingDateLayout, req.Date, s.cfg.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as yyyy-MM-dd HH:mm")
		return
	}
	if at.Minute() != 0 || at.Hour() < s.cfg.OpenHour || at.Hour() > s.cfg.CloseHour {
		writeError(w, http.StatusBadRequest, "date is outside bookable hours")
		return
	}

	appt := Appointment{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		Date:       req.Date,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Book(r.Context(), scheduling.DateOf(at), at.Hour(), appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			writeError(w, http.StatusConflict, "this appointment hour is already booked")
			return
		}
		s.logger.Error("failed to store appointment", "error", err, "provider_id", req.ProviderID)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	s.logger.Info("appointment created", "id", appt.ID, "provider_id", appt.ProviderID, "date", appt.Date)
	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) knownProvider(id string) bool {
	for _, p := range s.cfg.Providers {
		if p.ID == id {
			return true
		}
	}
	return false
}

func parseDayQuery(r *http.Request) (scheduling.Date, error) {
	q := r.URL.Query()
	year, errY := strconv.Atoi(q.Get("year"))
	month, errM := strconv.Atoi(q.Get("month"))
	day, errD := strconv.Atoi(q.Get("day"))
	if errY != nil || errM != nil || errD != nil {
		return scheduling.Date{}, errors.New("year, month and day are required integers")
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return scheduling.Date{}, errors.New("invalid calendar date")
	}
	return scheduling.DateOf(t), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
