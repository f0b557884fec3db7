package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vesaa/hostwatch/internal/models"
	"github.com/vesaa/hostwatch/internal/viewer"
)

const (
	chartWidth  = 320
	chartHeight = 120
)

type metricCard struct {
	Label string
	Value float64
	Class string
}

type trendChart struct {
	Title  string
	Class  string
	Points string
}

// dashboardView is everything index.html renders for one request.
type dashboardView struct {
	Warning  string
	Info     string
	Status   string
	Options  []string
	Latest   []models.Record
	Filtered []models.Record
	Count    int
	Cards    []metricCard
	Charts   []trendChart
	Width    int
	Height   int
}

// handleDashboard renders the full page from a fresh read of the history.
func (s *Server) handleDashboard(c *gin.Context) {
	records, missing, err := s.load(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to read system_log: %v", err)
		return
	}

	view := dashboardView{
		Status: c.DefaultQuery("status", viewer.AllStatuses),
		Width:  chartWidth,
		Height: chartHeight,
	}
	switch {
	case missing:
		view.Warning = missingDBWarning
		c.HTML(http.StatusOK, dashboardTemplate, view)
		return
	case len(records) == 0:
		view.Info = "No records found in system_log yet."
		c.HTML(http.StatusOK, dashboardTemplate, view)
		return
	}

	view.Latest = viewer.Latest(records, s.latest)
	view.Options = viewer.StatusOptions(records)
	filtered := viewer.Filter(records, view.Status)
	view.Filtered = viewer.Newest(filtered)
	view.Count = len(filtered)

	if len(filtered) == 0 {
		view.Warning = "No records match this filter."
		c.HTML(http.StatusOK, dashboardTemplate, view)
		return
	}

	newest := view.Filtered[0]
	view.Cards = []metricCard{
		{"CPU Usage (%)", newest.CPU, "cpu"},
		{"Memory Usage (%)", newest.Memory, "memory"},
		{"Disk Usage (%)", newest.Disk, "disk"},
	}
	series := viewer.Series(filtered)
	view.Charts = []trendChart{
		{"CPU Usage (%)", "cpu", viewer.Chart(series.CPU, chartWidth, chartHeight)},
		{"Memory Usage (%)", "memory", viewer.Chart(series.Memory, chartWidth, chartHeight)},
		{"Disk Usage (%)", "disk", viewer.Chart(series.Disk, chartWidth, chartHeight)},
	}
	c.HTML(http.StatusOK, dashboardTemplate, view)
}
