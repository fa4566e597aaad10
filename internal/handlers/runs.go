package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/catalogiq/catalog-service/internal/database"
)

// ListRunsRequest represents query parameters for listing parse runs
type ListRunsRequest struct {
	Limit  int `form:"limit" json:"limit" jsonschema:"minimum=1,maximum=100"`
	Offset int `form:"offset" json:"offset" jsonschema:"minimum=0"`
}

// ListRunsResponse represents the response for listing parse runs
type ListRunsResponse struct {
	Runs []database.ParseRun `json:"runs" jsonschema:"required"`
}

// RunDetailResponse pairs a run with its per-file outcomes
type RunDetailResponse struct {
	Run   database.ParseRun          `json:"run" jsonschema:"required"`
	Files []database.ParseFileRecord `json:"files" jsonschema:"required"`
}

// ListRuns returns a paginated list of parse runs, newest first
func ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
		return
	}

	runs, err := database.ListParseRuns(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{Runs: runs})
}

// GetRun returns one parse run with its file outcomes
func GetRun(c *gin.Context) {
	runID := c.Param("id")

	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
		return
	}

	run, err := database.GetParseRun(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	files, err := database.GetParseFilesByRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RunDetailResponse{Run: *run, Files: files})
}
