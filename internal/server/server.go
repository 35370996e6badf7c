package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/fulfillment/internal/processor"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/storefront"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

// OrderProcessor handles decoded order-paid events.
type OrderProcessor interface {
	ProcessOrderPaid(ctx context.Context, event *storefront.OrderPaidEvent) (*processor.Result, error)
}

// Server is the HTTP server for the fulfillment service.
type Server struct {
	port      int
	secret    string
	processor OrderProcessor
	logger    *otelzap.Logger
	metrics   *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port          int
	WebhookSecret string
}

// New creates a new server instance.
func New(cfg Config, proc OrderProcessor, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:      cfg.Port,
		secret:    cfg.WebhookSecret,
		processor: proc,
		logger:    logger,
		metrics:   metrics,
	}
}

// Handler returns the HTTP routes. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/webhooks/order-paid", s.handleOrderPaid)
	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // webhooks process synchronously
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type webhookResponse struct {
	Status    string `json:"status"`
	Shipped   int    `json:"shipped,omitempty"`
	Escalated int    `json:"escalated,omitempty"`
	Failed    int    `json:"failed,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleOrderPaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.metrics.RecordWebhook("read_error")
		s.writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if !storefront.VerifySignature(s.secret, body, r.Header.Get(storefront.SignatureHeader)) {
		s.metrics.RecordWebhook("bad_signature")
		s.logger.Warn("Rejected webhook with invalid signature",
			zap.String("remote_addr", r.RemoteAddr),
		)
		s.writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	event, err := storefront.ParseOrderPaidEvent(body)
	if err != nil {
		s.metrics.RecordWebhook("bad_payload")
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.processor.ProcessOrderPaid(r.Context(), event)
	if err != nil {
		s.metrics.RecordWebhook("error")
		s.logger.Error("Webhook processing failed",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		s.writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	s.metrics.RecordWebhook("ok")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(webhookResponse{
		Status:    "processed",
		Shipped:   result.Shipped,
		Escalated: result.Escalated,
		Failed:    result.Failed,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(webhookResponse{Status: "error", Error: msg})
}
