// Package metrics expone métricas Prometheus del negocio y de HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/odonto-api/internal/application/ports"
)

const namespace = "odonto"

var _ ports.EventRecorder = (*Recorder)(nil)

// Recorder implementa ports.EventRecorder sobre un registro propio.
type Recorder struct {
	registry *prometheus.Registry

	appointmentsCreated prometheus.Counter
	conflicts           prometheus.Counter
	statusChanges       *prometheus.CounterVec
	stockMovements      *prometheus.CounterVec
	insufficientStock   prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpLatency         *prometheus.HistogramVec
}

// NewRecorder crea y registra todos los colectores (incluye Go runtime y proceso).
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "appointments_created_total",
			Help: "Consultas agendadas.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "scheduling_conflicts_total",
			Help: "Intentos de agendar sobre una franja ocupada.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "appointment_status_changes_total",
			Help: "Transiciones de estado por estado destino.",
		}, []string{"status"}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_movements_total",
			Help: "Movimientos registrados en el libro por tipo.",
		}, []string{"type"}),
		insufficientStock: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "insufficient_stock_total",
			Help: "Salidas rechazadas por stock insuficiente.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Requests HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Latencia de requests HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.appointmentsCreated, r.conflicts, r.statusChanges,
		r.stockMovements, r.insufficientStock, r.httpRequests, r.httpLatency,
	)
	return r
}

func (r *Recorder) AppointmentCreated() { r.appointmentsCreated.Inc() }
func (r *Recorder) SchedulingConflict() { r.conflicts.Inc() }
func (r *Recorder) InsufficientStock()  { r.insufficientStock.Inc() }

func (r *Recorder) AppointmentStatusChanged(status string) {
	r.statusChanges.WithLabelValues(status).Inc()
}

func (r *Recorder) StockMoved(movementType string) {
	r.stockMovements.WithLabelValues(movementType).Inc()
}

// Registry expone el registro (tests y colectores adicionales).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Middleware mide cada request usando la ruta declarada, no la URL, para acotar la cardinalidad.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics en formato Prometheus.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
