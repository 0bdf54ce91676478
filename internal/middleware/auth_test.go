package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/token"
)

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	t.Cleanup(iss.Close)
	return iss
}

func issueFor(t *testing.T, iss *token.Issuer, id uint, role domain.Role) string {
	t.Helper()
	u := &domain.User{Role: role}
	u.ID = id
	raw, _, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return raw
}

func setupAuthRouter(iss *token.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(Auth(iss))
	r.GET("/public", func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "role": UserRole(c)})
	})
	r.GET("/private", RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/admin", RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestAuth_AnonymousPassesThrough(t *testing.T) {
	r := setupAuthRouter(newTestIssuer(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["ok"] != false {
		t.Errorf("expected anonymous request, got %v", body)
	}
}

func TestAuth_ValidTokenSetsUser(t *testing.T) {
	iss := newTestIssuer(t)
	r := setupAuthRouter(iss)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, iss, 9, domain.RoleArtist))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["id"] != float64(9) || body["role"] != "artist" {
		t.Errorf("body = %v; want id 9 role artist", body)
	}
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	r := setupAuthRouter(newTestIssuer(t))

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d; want 401", header, w.Code)
		}
	}
}

func TestRequireUser(t *testing.T) {
	iss := newTestIssuer(t)
	r := setupAuthRouter(iss)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d; want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, iss, 1, domain.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("user: status = %d; want 200", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	iss := newTestIssuer(t)
	r := setupAuthRouter(iss)

	tests := []struct {
		name string
		role domain.Role
		want int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"artist forbidden", domain.RoleArtist, http.StatusForbidden},
		{"user forbidden", domain.RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+issueFor(t, iss, 3, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d; want %d", w.Code, tt.want)
			}
		})
	}
}
