package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, trust bool, upstream string) (header, inHandler string) {
	t.Helper()
	r := gin.New()
	r.Use(RequestID(trust))
	r.GET("/", func(c *gin.Context) {
		inHandler = RequestIDFrom(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if upstream != "" {
		req.Header.Set(RequestIDHeader, upstream)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header().Get(RequestIDHeader), inHandler
}

func TestRequestID_Generates(t *testing.T) {
	header, got := serveRequestID(t, false, "")
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("header %q is not a uuid: %v", header, err)
	}
	if got != header {
		t.Errorf("handler saw %q, header %q", got, header)
	}

	other, _ := serveRequestID(t, false, "")
	if other == header {
		t.Error("ids should differ between requests")
	}
}

func TestRequestID_Upstream(t *testing.T) {
	tests := []struct {
		name     string
		trust    bool
		upstream string
		reused   bool
	}{
		{"untrusted is replaced", false, "edge-123", false},
		{"trusted is reused", true, "edge-123", true},
		{"trusted but malformed", true, "bad id;drop", false},
		{"trusted but too long", true, strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, _ := serveRequestID(t, tt.trust, tt.upstream)
			if (header == tt.upstream) != tt.reused {
				t.Errorf("header = %q; reused = %v, want %v", header, header == tt.upstream, tt.reused)
			}
		})
	}
}

func TestRequestID_InLogContext(t *testing.T) {
	var buf bytes.Buffer
	log := newContextLogger(t, &buf)

	r := gin.New()
	r.Use(RequestID(true))
	r.GET("/", func(c *gin.Context) {
		log.InfoContext(c.Request.Context(), "listing fetched")
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "trace-42") {
		t.Errorf("log line missing request id:\n%s", buf.String())
	}
}

func TestRequestIDFrom_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := RequestIDFrom(c); got != "" {
		t.Errorf("RequestIDFrom() = %q, want empty", got)
	}
}
