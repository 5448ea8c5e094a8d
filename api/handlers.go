package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gilby125/flight-emissions-api/emissions"
	"github.com/gilby125/flight-emissions-api/pkg/cache"
	"github.com/gilby125/flight-emissions-api/pkg/export"
	"github.com/gilby125/flight-emissions-api/pkg/logger"
	"github.com/gilby125/flight-emissions-api/registry"
)

// EstimateRequest is the body of POST /estimate. Either Route or From/To
// must be set.
type EstimateRequest struct {
	Route string `json:"route"`
	From  string `json:"from"`
	To    string `json:"to"`
	Trips int    `json:"trips"`
}

// GetAirport returns a handler for looking up one airport by code.
func GetAirport(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		airport, err := reg.Lookup(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, airport)
	}
}

// ListAirports returns a handler for listing the reference table, optionally
// filtered by country.
func ListAirports(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		airports := reg.Airports(c.Query("country"))
		c.JSON(http.StatusOK, gin.H{
			"count":    len(airports),
			"airports": airports,
		})
	}
}

// GetDistance returns a handler for a single origin/destination lookup.
func GetDistance(proc *emissions.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Query("origin")
		destination := c.Query("destination")

		trips := 1
		if raw := strings.TrimSpace(c.Query("trips")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid trips value %q", raw)})
				return
			}
			trips = parsed
		}

		result, err := proc.Pair(origin, destination, trips)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Estimate returns a handler computing one route from a JSON body.
func Estimate(proc *emissions.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EstimateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		trips := req.Trips
		if trips == 0 {
			trips = 1
		}

		var (
			result emissions.RouteResult
			err    error
		)
		switch {
		case req.Route != "":
			result, err = proc.RouteString(req.Route, trips)
		case req.From != "" || req.To != "":
			result, err = proc.Pair(req.From, req.To, trips)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "either route or from/to is required"})
			return
		}
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// CreateBatch returns a handler that processes an uploaded CSV itinerary
// file and stores the report for later retrieval.
func CreateBatch(proc *emissions.Processor, reports *cache.Manager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing uploaded file: " + err.Error()})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file: " + err.Error()})
			return
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse csv: " + err.Error()})
			return
		}

		outcome, err := proc.ProcessRecords(records)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		report := emissions.BatchReport{
			ID:           uuid.NewString(),
			CreatedAt:    time.Now().UTC(),
			BatchOutcome: *outcome,
		}

		if err := reports.SetJSON(c.Request.Context(), cache.ReportKey(report.ID), report); err != nil {
			// The computation already succeeded; return it even if the
			// report cannot be fetched again later.
			log.Error(err, "failed to store batch report", "id", report.ID)
		}

		log.Info("processed batch", "id", report.ID, "file", fileHeader.Filename)
		for _, line := range export.SummaryLines(report.Summary) {
			log.Info(line, "id", report.ID)
		}

		c.JSON(http.StatusCreated, report)
	}
}

// GetBatch returns a handler fetching a stored batch report by id.
func GetBatch(reports *cache.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var report emissions.BatchReport
		err := reports.GetJSON(c.Request.Context(), cache.ReportKey(c.Param("id")), &report)
		if err != nil {
			if errors.Is(err, cache.ErrCacheMiss) {
				c.JSON(http.StatusNotFound, gin.H{"error": "batch report not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// ExportBatch returns a handler rendering a stored report as a CSV download.
func ExportBatch(reports *cache.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var report emissions.BatchReport
		err := reports.GetJSON(c.Request.Context(), cache.ReportKey(c.Param("id")), &report)
		if err != nil {
			if errors.Is(err, cache.ErrCacheMiss) {
				c.JSON(http.StatusNotFound, gin.H{"error": "batch report not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report: " + err.Error()})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=emissions_%s.csv", report.ID))
		if err := export.WriteRoutes(c.Writer, report.Results); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write csv: " + err.Error()})
		}
	}
}

// statusForError maps pipeline errors to HTTP statuses: malformed input is
// the caller's fault, an unknown airport is a lookup miss.
func statusForError(err error) int {
	var invalid *emissions.InvalidRouteError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	var unknown *registry.UnknownAirportError
	if errors.As(err, &unknown) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
