// Package server provides the HostWatch viewer: a read-only Gin surface over
// the log store. Every request reloads the full history; nothing is cached.
//
//	GET /                     HTML dashboard (?status= filter)
//	GET /api/records          filtered records, newest first (?status=)
//	GET /api/records/latest   newest N records (?limit=)
//	GET /api/statuses         filter options
//	GET /api/series           per-metric time series (?status=)
//	GET /api/health           liveness
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vesaa/hostwatch/internal/models"
	"github.com/vesaa/hostwatch/internal/store"
	"github.com/vesaa/hostwatch/internal/viewer"
)

// missingDBWarning is shown when the collector has not created the database yet.
const missingDBWarning = "Database not found. Please run the collector first."

// HistoryReader is the read side of the log store.
type HistoryReader interface {
	All(ctx context.Context) ([]models.Record, error)
}

// Server renders views over a HistoryReader.
type Server struct {
	history HistoryReader
	latest  int
	logger  *zap.Logger
}

// New creates a viewer whose "latest" table holds latestN rows.
func New(history HistoryReader, latestN int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if latestN <= 0 {
		latestN = 5
	}
	return &Server{history: history, latest: latestN, logger: log.Named("viewer")}
}

// RegisterRoutes wires the API, the dashboard, and its static assets onto r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
		})
		api.GET("/records", s.handleRecords)
		api.GET("/records/latest", s.handleLatest)
		api.GET("/statuses", s.handleStatuses)
		api.GET("/series", s.handleSeries)
	}
	RegisterStaticFiles(r)
	r.GET("/", s.handleDashboard)
}

// load reads the full history. missing is true when the database file does
// not exist yet, which callers render as an advisory rather than an error.
func (s *Server) load(c *gin.Context) (records []models.Record, missing bool, err error) {
	records, err = s.history.All(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		return []models.Record{}, true, nil
	}
	if err != nil {
		s.logger.Error("loading history", zap.Error(err))
		return nil, false, err
	}
	return records, false, nil
}

// ── Handlers ──────────────────────────────────────────────────────────────────

// handleRecords returns the status-filtered history, newest first.
func (s *Server) handleRecords(c *gin.Context) {
	records, missing, err := s.load(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := c.DefaultQuery("status", viewer.AllStatuses)
	filtered := viewer.Newest(viewer.Filter(records, status))

	resp := gin.H{"status": status, "count": len(filtered), "data": filtered}
	addWarning(resp, missing, len(records), len(filtered))
	c.JSON(http.StatusOK, resp)
}

// handleLatest returns the newest ?limit= records (default: the configured N).
func (s *Server) handleLatest(c *gin.Context) {
	limit := s.latest
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, missing, err := s.load(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	latest := viewer.Latest(records, limit)
	resp := gin.H{"count": len(latest), "data": latest}
	addWarning(resp, missing, len(records), len(latest))
	c.JSON(http.StatusOK, resp)
}

// handleStatuses returns the filter options: "All" plus every observed status.
func (s *Server) handleStatuses(c *gin.Context) {
	records, missing, err := s.load(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"data": viewer.StatusOptions(records)}
	addWarning(resp, missing, len(records), len(records))
	c.JSON(http.StatusOK, resp)
}

// handleSeries returns the cpu/memory/disk series of the filtered history.
func (s *Server) handleSeries(c *gin.Context) {
	records, missing, err := s.load(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := c.DefaultQuery("status", viewer.AllStatuses)
	filtered := viewer.Filter(records, status)
	resp := gin.H{"status": status, "count": len(filtered), "data": viewer.Series(filtered)}
	addWarning(resp, missing, len(records), len(filtered))
	c.JSON(http.StatusOK, resp)
}

// addWarning attaches the advisory for the empty states.
func addWarning(resp gin.H, missing bool, total, shown int) {
	switch {
	case missing:
		resp["warning"] = missingDBWarning
	case total == 0:
		resp["warning"] = "No records found in system_log yet."
	case shown == 0:
		resp["warning"] = "No records match this filter."
	}
}
