// Package middleware 提供 HTTP 中间件
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthConfig 认证配置
//
// APIKey 为空时：开发环境放行全部请求，生产环境视为服务未
// 正确配置，返回 503。
type AuthConfig struct {
	APIKey      string
	Environment string
	SkipPaths   []string // 跳过认证的路径
}

// APIKeyAuth Bearer 密钥认证中间件
func APIKeyAuth(config *AuthConfig) func(http.Handler) http.Handler {
	devMode := strings.EqualFold(config.Environment, "development")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if config.APIKey == "" {
				if devMode {
					next.ServeHTTP(w, r)
					return
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"service_unavailable","message":"服务未配置 API 密钥"}`, http.StatusServiceUnavailable)
				return
			}

			token := bearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"missing_api_key","message":"API 密钥未提供"}`, http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(config.APIKey)) != 1 {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"invalid_api_key","message":"无效的 API 密钥"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken 从 Authorization 头提取 Bearer 令牌
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
