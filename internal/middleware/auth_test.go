package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(config *AuthConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return APIKeyAuth(config)(next)
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name     string
		config   *AuthConfig
		path     string
		header   string
		expected int
	}{
		{
			"正确密钥放行",
			&AuthConfig{APIKey: "secret", Environment: "production"},
			"/api/v1/shifts/generate", "Bearer secret", http.StatusOK,
		},
		{
			"错误密钥拒绝",
			&AuthConfig{APIKey: "secret", Environment: "production"},
			"/api/v1/shifts/generate", "Bearer wrong", http.StatusUnauthorized,
		},
		{
			"缺少密钥拒绝",
			&AuthConfig{APIKey: "secret", Environment: "production"},
			"/api/v1/shifts/generate", "", http.StatusUnauthorized,
		},
		{
			"小写 bearer 前缀兼容",
			&AuthConfig{APIKey: "secret", Environment: "production"},
			"/api/v1/shifts/generate", "bearer secret", http.StatusOK,
		},
		{
			"开发环境未配置密钥放行",
			&AuthConfig{APIKey: "", Environment: "development"},
			"/api/v1/shifts/generate", "", http.StatusOK,
		},
		{
			"生产环境未配置密钥拒绝",
			&AuthConfig{APIKey: "", Environment: "production"},
			"/api/v1/shifts/generate", "", http.StatusServiceUnavailable,
		},
		{
			"健康检查跳过认证",
			&AuthConfig{APIKey: "secret", Environment: "production", SkipPaths: []string{"/health", "/metrics"}},
			"/health", "", http.StatusOK,
		},
		{
			"指标接口跳过认证",
			&AuthConfig{APIKey: "secret", Environment: "production", SkipPaths: []string{"/health", "/metrics"}},
			"/metrics", "", http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			authedHandler(tt.config).ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("状态码 = %d, expected %d", rec.Code, tt.expected)
			}
		})
	}
}
