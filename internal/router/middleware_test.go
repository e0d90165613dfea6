package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(IdentityMiddleware())
	r.GET("/me", func(c *gin.Context) {
		value, ok := c.Get(userIDContextKey)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"guest": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": value})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(userIDHeader, "42")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"user_id":42`) {
		t.Fatalf("expected user id in context, got %s", w.Body.String())
	}

	// 头缺失按游客处理
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/me", nil))
	if !strings.Contains(w2.Body.String(), `"guest":true`) {
		t.Fatalf("expected guest without header, got %s", w2.Body.String())
	}

	// 非法值不写入上下文
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/me", nil)
	req3.Header.Set(userIDHeader, "not-a-number")
	r.ServeHTTP(w3, req3)
	if !strings.Contains(w3.Body.String(), `"guest":true`) {
		t.Fatalf("expected guest for invalid header, got %s", w3.Body.String())
	}
}

func TestAdminIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AdminIdentityMiddleware())
	r.GET("/admin/me", func(c *gin.Context) {
		value, ok := c.Get(adminIDContextKey)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin_id": value})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.Header.Set(adminIDHeader, "7")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"admin_id":7`) {
		t.Fatalf("expected admin id in context, got %s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/admin/me", nil))
	if !strings.Contains(w2.Body.String(), `"anonymous":true`) {
		t.Fatalf("expected anonymous without header, got %s", w2.Body.String())
	}
}
