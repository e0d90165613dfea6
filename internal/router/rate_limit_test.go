package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/track/TRK-1", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByIP(c); key != "1.2.3.4" {
		t.Fatalf("key want 1.2.3.4 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 未配置 Redis 时放行
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{"int64", int64(5), 5, true},
		{"int", 7, 7, true},
		{"float64", float64(9), 9, true},
		{"string", "10", 0, false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: want (%d,%v) got (%d,%v)", tc.name, tc.want, tc.ok, got, ok)
		}
	}
}
