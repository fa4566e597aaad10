package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/pipeline"
	"github.com/catalogiq/catalog-service/internal/writer"
)

// ParseHandler serves catalog file uploads.
type ParseHandler struct {
	runner        *pipeline.Runner
	batchOptions  pipeline.BatchOptions
	maxUploadSize int64
}

func NewParseHandler(runner *pipeline.Runner, batchOptions pipeline.BatchOptions, maxUploadSize int64) *ParseHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 100 * 1024 * 1024
	}
	return &ParseHandler{
		runner:        runner,
		batchOptions:  batchOptions,
		maxUploadSize: maxUploadSize,
	}
}

// ParseResponse wraps the batch outcome returned to API clients.
type ParseResponse struct {
	RunID     string `json:"runId,omitempty" jsonschema:"description=Persisted parse run identifier"`
	Succeeded int    `json:"succeeded" jsonschema:"required"`
	Failed    int    `json:"failed" jsonschema:"required"`
	Files     any    `json:"files" jsonschema:"required"`
}

// Parse handles POST /v1/parse. Accepts one or more uploaded files
// under the "files" form field and returns per-file parse results.
// With ?format=csv and a single successful file, responds with the
// standardized records as CSV instead.
func (h *ParseHandler) Parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		// Single-file clients use the "file" field.
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	inputs := make([]pipeline.FileInput, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload " + fh.Filename})
			return
		}
		inputs = append(inputs, pipeline.FileInput{Filename: fh.Filename, Content: content})
	}

	result, runID, err := h.runner.RunBatch(c.Request.Context(), inputs, h.batchOptions)
	if err != nil {
		log.Error().Err(err).Msg("batch parse aborted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "csv" && len(result.Files) == 1 && result.Files[0].Result.Success {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="catalog.csv"`)
		if err := writer.WriteCSV(c.Writer, result.Files[0].Result.Records); err != nil {
			log.Error().Err(err).Msg("failed to stream CSV response")
		}
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		RunID:     runID,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Files:     result.Files,
	})
}
