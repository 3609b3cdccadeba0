// Package server exposes the HTTP API: the conversational agent endpoints
// plus direct bill and analytics routes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/agent"
	"github.com/homeledger/homeledger/internal/db"
	"github.com/homeledger/homeledger/internal/metrics"
	"github.com/homeledger/homeledger/internal/models"
)

// ChatEngine is the conversational surface the server drives.
type ChatEngine interface {
	ProcessMessage(ctx context.Context, sessionID, userID, message string) agent.TurnResult
	History(sessionID string) []models.ChatMessage
	ClearSession(sessionID string)
}

// BillStore covers the direct bill and category routes.
type BillStore interface {
	CreateBill(ctx context.Context, draft models.BillDraft) (models.Bill, error)
	GetBill(ctx context.Context, id string) (models.Bill, error)
	QueryBills(ctx context.Context, filter models.BillFilter) ([]models.Bill, error)
	UpcomingBills(ctx context.Context, days int) ([]models.Bill, error)
	OverdueBills(ctx context.Context) ([]models.Bill, error)
	UpdateBill(ctx context.Context, id string, fields map[string]any) (models.Bill, error)
	MarkBillPaid(ctx context.Context, id string) (models.Bill, error)
	DeleteBill(ctx context.Context, id string) error
	GetOrCreateCategory(ctx context.Context, name string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Analytics covers the reporting routes.
type Analytics interface {
	MonthlySummary(ctx context.Context, year int, month time.Month) (models.MonthlySummary, error)
	YearlySummary(ctx context.Context, year int) (models.YearlySummary, error)
	CategoryAnalysis(ctx context.Context, months int) (models.CategoryAnalysis, error)
	TrendAnalysis(ctx context.Context, months int) (models.TrendAnalysis, error)
	ComprehensiveStats(ctx context.Context) (models.ExpenseStats, error)
}

// Deps holds everything the server needs to answer requests.
type Deps struct {
	Engine    ChatEngine
	Bills     BillStore
	Analytics Analytics
	Collector *metrics.Collector
	Logger    *slog.Logger

	// UpcomingDays is the default look-ahead for /bills/upcoming when
	// the request has no days parameter. Zero means 30.
	UpcomingDays int
}

// Server is the HTTP front end.
type Server struct {
	deps     Deps
	router   *gin.Engine
	upgrader websocket.Upgrader
	addr     string
}

// New builds the router. addr is the listen address, e.g. ":8787".
func New(addr string, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(deps.Logger))

	if deps.UpcomingDays <= 0 {
		deps.UpcomingDays = 30
	}

	s := &Server{
		deps:   deps,
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		addr: addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")

	api.POST("/agent/chat", s.handleChat)
	api.GET("/agent/history/:session_id", s.handleHistory)
	api.DELETE("/agent/session/:session_id", s.handleClearSession)
	api.GET("/agent/ws", s.handleChatWS)

	api.POST("/bills", s.handleCreateBill)
	api.GET("/bills", s.handleListBills)
	api.GET("/bills/upcoming", s.handleUpcomingBills)
	api.GET("/bills/overdue", s.handleOverdueBills)
	api.GET("/bills/:id", s.handleGetBill)
	api.PATCH("/bills/:id", s.handleUpdateBill)
	api.POST("/bills/:id/pay", s.handleMarkBillPaid)
	api.DELETE("/bills/:id", s.handleDeleteBill)

	api.GET("/categories", s.handleListCategories)

	api.GET("/analytics/summary", s.handleMonthlySummary)
	api.GET("/analytics/yearly", s.handleYearlySummary)
	api.GET("/analytics/categories", s.handleCategoryAnalysis)
	api.GET("/analytics/trends", s.handleTrendAnalysis)
	api.GET("/analytics/stats", s.handleStats)

	api.GET("/stats/runtime", s.handleRuntimeStats)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	result := s.deps.Engine.ProcessMessage(c.Request.Context(), req.SessionID, req.UserID, req.Message)
	c.JSON(http.StatusOK, result)
}

// handleHistory returns the transcript. Unknown sessions are
// indistinguishable from cleared ones, so both answer with an empty list.
func (s *Server) handleHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	history := s.deps.Engine.History(sessionID)
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": history})
}

func (s *Server) handleClearSession(c *gin.Context) {
	s.deps.Engine.ClearSession(c.Param("session_id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := s.deps.Bills.GetOrCreateCategory(c.Request.Context(), req.Category)
	if err != nil {
		s.writeError(c, err)
		return
	}

	bill, err := s.deps.Bills.CreateBill(c.Request.Context(), models.BillDraft{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Frequency:   models.BillFrequency(req.Frequency),
		CategoryID:  category.ID,
		Vendor:      req.Vendor,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (s *Server) handleListBills(c *gin.Context) {
	filter := models.BillFilter{
		Category: c.Query("category"),
		Status:   models.BillStatus(c.Query("status")),
	}
	if v := c.Query("min_amount"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinAmount = &f
		}
	}
	if v := c.Query("max_amount"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxAmount = &f
		}
	}

	bills, err := s.deps.Bills.QueryBills(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills)})
}

func (s *Server) handleUpcomingBills(c *gin.Context) {
	days := intQuery(c, "days", s.deps.UpcomingDays)
	bills, err := s.deps.Bills.UpcomingBills(c.Request.Context(), days)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills), "days": days})
}

func (s *Server) handleOverdueBills(c *gin.Context) {
	bills, err := s.deps.Bills.OverdueBills(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills)})
}

func (s *Server) handleGetBill(c *gin.Context) {
	bill, err := s.deps.Bills.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) handleUpdateBill(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := s.deps.Bills.UpdateBill(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) handleMarkBillPaid(c *gin.Context) {
	bill, err := s.deps.Bills.MarkBillPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) handleDeleteBill(c *gin.Context) {
	if err := s.deps.Bills.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.deps.Bills.ListCategories(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

func (s *Server) handleMonthlySummary(c *gin.Context) {
	year := intQuery(c, "year", 0)
	month := time.Month(intQuery(c, "month", 0))

	summary, err := s.deps.Analytics.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleYearlySummary(c *gin.Context) {
	summary, err := s.deps.Analytics.YearlySummary(c.Request.Context(), intQuery(c, "year", 0))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCategoryAnalysis(c *gin.Context) {
	analysis, err := s.deps.Analytics.CategoryAnalysis(c.Request.Context(), intQuery(c, "months", 6))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleTrendAnalysis(c *gin.Context) {
	analysis, err := s.deps.Analytics.TrendAnalysis(c.Request.Context(), intQuery(c, "months", 6))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.deps.Analytics.ComprehensiveStats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleRuntimeStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Collector.Snapshot())
}

// writeError maps storage errors to HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrAlreadyExists):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.deps.Logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
