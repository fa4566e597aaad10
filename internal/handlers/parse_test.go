package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogiq/catalog-service/internal/pipeline"
	"github.com/catalogiq/catalog-service/internal/storage"
)

func newParseRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	runner := pipeline.NewRunner(pipeline.RunnerOptions{Archive: archive})
	handler := NewParseHandler(runner, pipeline.BatchOptions{}, 0)

	router := gin.New()
	router.POST("/v1/parse", handler.Parse)
	return router
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// TestParseEndpoint tests a multipart upload through the full pipeline
func TestParseEndpoint(t *testing.T) {
	router := newParseRouter(t)

	body, contentType := multipartBody(t, "files", map[string]string{
		"catalog.csv": "SKU,Name,Buy Cost\nAB-1,Widget,10.50\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)
	assert.Empty(t, resp.RunID)
}

// TestParseEndpointSingleFileField tests the fallback "file" form field
func TestParseEndpointSingleFileField(t *testing.T) {
	router := newParseRouter(t)

	body, contentType := multipartBody(t, "file", map[string]string{
		"catalog.csv": "SKU,Name\nAB-1,Widget\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestParseEndpointCSVFormat tests the CSV download response
func TestParseEndpointCSVFormat(t *testing.T) {
	router := newParseRouter(t)

	body, contentType := multipartBody(t, "files", map[string]string{
		"catalog.csv": "SKU,Name,Buy Cost\nAB-1,Widget,10.50\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "AB-1")
}

// TestParseEndpointNoFiles tests the empty upload error
func TestParseEndpointNoFiles(t *testing.T) {
	router := newParseRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "nothing here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no files uploaded")
}

// TestParseEndpointNotMultipart tests malformed request bodies
func TestParseEndpointNotMultipart(t *testing.T) {
	router := newParseRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewBufferString("plain body"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
