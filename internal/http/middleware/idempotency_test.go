package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}))
	r.POST("/parts", func(c *gin.Context) {
		k, ok := GetIdempotencyKey(c)
		if !ok {
			c.String(http.StatusOK, "-")
			return
		}
		c.String(http.StatusOK, k)
	})

	cases := []struct {
		key    string
		status int
		body   string
	}{
		{"", http.StatusOK, "-"},
		{"abc-123:x.y~z", http.StatusOK, "abc-123:x.y~z"},
		{"has space", http.StatusBadRequest, ""},
		{strings.Repeat("a", 201), http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/parts", nil)
		if tc.key != "" {
			req.Header.Set(HeaderIdempotencyKey, tc.key)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("key %q: status = %d", tc.key, w.Code)
		}
		if tc.status == http.StatusOK && w.Body.String() != tc.body {
			t.Fatalf("key %q: body = %q", tc.key, w.Body.String())
		}
		if tc.status == http.StatusBadRequest && !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: body = %q", tc.key, w.Body.String())
		}
	}
}

func TestIdempotencyValidator_CustomOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 4, Pattern: regexp.MustCompile(`^[0-9]+$`)}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for key, want := range map[string]int{"1234": http.StatusNoContent, "12345": http.StatusBadRequest, "ab": http.StatusBadRequest} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("key %q: status = %d, want %d", key, w.Code, want)
		}
	}
}
