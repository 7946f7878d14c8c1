package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-movements/internal/domain"
)

// Config opciones de métricas.
type Config struct {
	Namespace string
}

// Metrics agrupa las métricas del motor de movimientos. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	Validations        *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	EventsPublished    *prometheus.CounterVec
}

// New crea un registro propio con las métricas del proceso y las del motor.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "stock"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.Validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "movement_validations_total",
			Help:      "Validaciones de movimientos por tipo, resultado y código de rechazo",
		},
		[]string{"type", "result", "code"},
	)
	m.Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "movement_submissions_total",
			Help:      "Envíos al gateway por tipo y estado",
		},
		[]string{"type", "status"},
	)
	m.SubmissionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "movement_submission_duration_seconds",
			Help:      "Duración de los envíos al gateway",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"type"},
	)
	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "movement_events_published_total",
			Help:      "Eventos de movimiento publicados por estado",
		},
		[]string{"status"},
	)

	registry.MustRegister(m.Validations, m.Submissions, m.SubmissionDuration, m.EventsPublished)
	return m
}

// ObserveValidation cuenta una validación. err nil = válida.
func (m *Metrics) ObserveValidation(movementType string, err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.Validations.WithLabelValues(movementType, "valid", "").Inc()
		return
	}
	code := "UNKNOWN"
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		code = ve.Code
	}
	m.Validations.WithLabelValues(movementType, "invalid", code).Inc()
}

// ObserveSubmission cuenta un envío y su duración.
func (m *Metrics) ObserveSubmission(movementType string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Submissions.WithLabelValues(movementType, status).Inc()
	m.SubmissionDuration.WithLabelValues(movementType).Observe(elapsed.Seconds())
}

// ObservePublish cuenta la publicación de un evento.
func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.EventsPublished.WithLabelValues(status).Inc()
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
