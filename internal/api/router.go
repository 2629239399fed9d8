package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
	"github.com/hackgods/healthcare-appointment-registry/internal/metrics"
)

type RouterConfig struct {
	Service *appointment.Service
	Metrics *metrics.Metrics // nil disables /metrics and operation counters
	Logger  zerolog.Logger
	PgPool  *pgxpool.Pool // optional audit sink connection
	Redis   *redis.Client // optional publisher connection
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	health := NewHealthHandler(cfg.Service, cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	svc := cfg.Service
	dir := svc.Directory()
	observe := newObserver(cfg.Metrics)

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(dir, observe))
		r.Get("/{id}", getDoctorHandler(dir, observe))
		r.Get("/{id}/reviews", doctorReviewsHandler(dir, observe))
		r.Get("/{id}/insurance", checkInsuranceHandler(dir, observe))
		r.Get("/{id}/availability", availabilityHandler(svc, observe))
		r.Get("/{id}/appointments", doctorAppointmentsHandler(svc, observe))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookAppointmentHandler(svc, observe))
		r.Get("/", patientAppointmentsHandler(svc, observe))
		r.Get("/{id}", getAppointmentHandler(svc, observe))
		r.Delete("/{id}", cancelAppointmentHandler(svc, observe))
		r.Post("/{id}/reschedule", rescheduleAppointmentHandler(svc, observe))
	})

	return r
}
