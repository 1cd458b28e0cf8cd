// Package http provides the HTTP adapter over the expense engine services.
// It is a thin layer that translates requests into service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finvue/expense-engine/internal/config"
	"github.com/finvue/expense-engine/internal/extraction"
	"github.com/finvue/expense-engine/internal/ledger"
	"github.com/finvue/expense-engine/internal/narrative"
	"github.com/finvue/expense-engine/internal/recon"
	"github.com/finvue/expense-engine/internal/repository"
	"github.com/finvue/expense-engine/internal/validator"
)

// Services bundles everything the handlers call into. Extractor and
// Narrator may be nil when no LLM credentials are configured; the
// corresponding endpoints then answer 503.
type Services struct {
	Receipts       *repository.ReceiptRepository
	Policies       *repository.PolicyRepository
	ValidationLogs *repository.ValidationLogRepository
	Customers      *repository.CustomerRepository
	Invoices       *repository.InvoiceRepository
	Transactions   *repository.TransactionRepository

	Validator *validator.Validator
	Ledger    *ledger.Ledger
	Analyzer  *recon.Analyzer
	Extractor *extraction.Extractor
	Narrator  *narrative.Generator
}

// Server is the HTTP server adapter
type Server struct {
	config     config.ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(cfg config.ServerConfig, upload config.UploadConfig, services Services, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config: cfg,
		router: gin.New(),
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes(upload, services)

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

// requestIDMiddleware tags every request with a request ID, honoring one
// supplied by the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(upload config.UploadConfig, services Services) {
	handlers := NewHandlers(services, upload, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/receipts/validate", handlers.ValidateReceipt)
		api.POST("/receipts/upload", handlers.UploadReceipt)
		api.GET("/receipts", handlers.ListReceipts)
		api.GET("/receipts/:id", handlers.GetReceipt)

		api.GET("/policies", handlers.ListPolicies)
		api.POST("/policies", handlers.AddPolicy)
		api.DELETE("/policies/:id", handlers.DeletePolicy)
		api.POST("/policies/reload", handlers.ReloadPolicies)

		api.GET("/validation-logs", handlers.ListValidationLogs)

		api.POST("/customers", handlers.CreateCustomer)
		api.GET("/customers", handlers.ListCustomers)

		api.POST("/invoices", handlers.CreateInvoice)
		api.GET("/invoices", handlers.ListInvoices)

		api.POST("/transactions", handlers.CreateTransaction)
		api.GET("/transactions", handlers.ListTransactions)
		api.POST("/statements/parse", handlers.ParseStatement)

		api.GET("/reconciliation", handlers.Reconcile)
		api.GET("/reconciliation/:invoice_number", handlers.ReconcileInvoice)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
