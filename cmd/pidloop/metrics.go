package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ixian/pid"
)

// Metrics holds the Prometheus metrics for the control loop. It implements
// pid.Sink so the controller reports to it directly.
type Metrics struct {
	// Controller metrics, labelled by controller
	Setpoint   *prometheus.GaugeVec
	Measured   *prometheus.GaugeVec
	Error      *prometheus.GaugeVec
	Integral   *prometheus.GaugeVec
	Derivative *prometheus.GaugeVec
	Output     *prometheus.GaugeVec
	StepsTotal *prometheus.CounterVec

	// Loop metrics
	LoopDuration prometheus.Histogram

	startTime time.Time
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

func controllerGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pid_" + name,
			Help: help,
		},
		[]string{"controller"},
	)
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Setpoint:   controllerGauge("setpoint", "Controller setpoint"),
		Measured:   controllerGauge("measured", "Measured process variable"),
		Error:      controllerGauge("error", "Error fed to the controller"),
		Integral:   controllerGauge("integral", "Integral accumulator"),
		Derivative: controllerGauge("derivative", "Derivative of the filtered error"),
		Output:     controllerGauge("output", "Clamped controller output"),
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pid_steps_total",
				Help: "Total number of controller steps",
			},
			[]string{"controller"},
		),
		LoopDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pid_loop_duration_seconds",
				Help:    "Control loop execution time in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
		),
		startTime: time.Now(),
	}

	reg.MustRegister(
		m.Setpoint,
		m.Measured,
		m.Error,
		m.Integral,
		m.Derivative,
		m.Output,
		m.StepsTotal,
		m.LoopDuration,
	)

	return m
}

// Record implements pid.Sink
func (m *Metrics) Record(r pid.Record) {
	m.Setpoint.WithLabelValues(r.Label).Set(r.Setpoint)
	m.Measured.WithLabelValues(r.Label).Set(r.Measured)
	m.Error.WithLabelValues(r.Label).Set(r.Error)
	m.Integral.WithLabelValues(r.Label).Set(r.Integral)
	m.Derivative.WithLabelValues(r.Label).Set(r.Derivative)
	m.Output.WithLabelValues(r.Label).Set(r.Output)
	m.StepsTotal.WithLabelValues(r.Label).Inc()
}

// ObserveLoop records the duration of one loop iteration
func (m *Metrics) ObserveLoop(d time.Duration) {
	m.LoopDuration.Observe(d.Seconds())
}

// Handler serves /metrics from gatherer and /health
func (m *Metrics) Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", m.healthHandler)
	return mux
}

// StartMetricsServer starts the HTTP server for Prometheus metrics. The
// server shuts down when ctx is done.
func StartMetricsServer(ctx context.Context, port int, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", "error", err)
		}
	}()

	return srv
}

// healthHandler provides a health check endpoint
func (m *Metrics) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    time.Since(m.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
