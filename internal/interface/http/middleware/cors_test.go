package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		Enabled:          true,
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/books", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"同源请求不处理", http.MethodGet, "", http.StatusOK, ""},
		{"白名单Origin", http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{"非白名单Origin", http.MethodGet, "http://evil.example", http.StatusForbidden, ""},
		{"预检请求", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/books", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllow != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
				assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCORS_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{Enabled: false}))
	r.GET("/books", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
