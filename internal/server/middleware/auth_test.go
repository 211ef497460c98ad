package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestAuth(t *testing.T) {
	logger := zerolog.Nop()
	config := DefaultAuthConfig()
	config.Enabled = true
	config.APIKey = "secret"

	h := Auth(config, &logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    int
	}{
		{"public health", "/api/v1/health", nil, http.StatusOK},
		{"site pages are open", "/docs/intro/", nil, http.StatusOK},
		{"modules are open", "/@modules/virtual:image-list", nil, http.StatusOK},
		{"missing key", "/api/v1/images", nil, http.StatusUnauthorized},
		{"wrong key", "/api/v1/images", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", "/api/v1/images", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer key", "/api/v1/build", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"raw authorization", "/api/v1/build", map[string]string{"Authorization": "secret"}, http.StatusOK},
		{"metrics protected", "/metrics", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	h := Auth(DefaultAuthConfig(), &logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/build", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}
