package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrotrace/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// serve runs a single request through an engine configured by register
func serve(t *testing.T, register func(r *gin.Engine), method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	register(r)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
