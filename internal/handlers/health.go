// Package handlers exposes the parse pipeline over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/catalogiq/catalog-service/internal/database"
)

// HealthResponse reports service liveness and the persistence state.
type HealthResponse struct {
	Status   string `json:"status" jsonschema:"required"`
	Database string `json:"database" jsonschema:"required"`
}

// HealthCheck handles GET /health. A service running without a
// database is still healthy; only a configured-but-unreachable
// database degrades the status.
func HealthCheck(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "not configured"}

	if database.Pool() != nil {
		resp.Database = "connected"
		if err := database.Status(c.Request.Context()); err != nil {
			resp.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
