package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/infra/security"
)

func testTokenManager(t *testing.T) *security.TokenManager {
	t.Helper()
	manager, err := security.NewTokenManager("middleware-test-secret", "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return manager
}

func protectedRouter(tokens *security.TokenManager, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := []gin.HandlerFunc{RequireAuth(tokens)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		id, _ := GetAuthenticatedUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	router.GET("/protected", chain...)
	return router
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	tokens := testTokenManager(t)
	router := protectedRouter(tokens)

	signed, err := tokens.Sign(domain.Identity{ID: 2, Name: "Utilisateur1", Role: domain.RoleResidential})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestRequireAuthRejectsBadHeaders(t *testing.T) {
	tokens := testTokenManager(t)
	router := protectedRouter(tokens)

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no scheme", "just-a-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestRequireRoleEnforcesRole(t *testing.T) {
	tokens := testTokenManager(t)
	router := protectedRouter(tokens, domain.RoleAdmin)

	adminToken, err := tokens.Sign(domain.Identity{ID: 1, Name: "Administrateur", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	userToken, err := tokens.Sign(domain.Identity{ID: 2, Name: "Utilisateur1", Role: domain.RoleResidential})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected residential user to be forbidden, got %d", rr.Code)
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	tokens := testTokenManager(t)
	router := protectedRouter(tokens, domain.RoleAdmin, domain.RoleResidential)

	token, err := tokens.Sign(domain.Identity{ID: 2, Name: "Utilisateur1", Role: domain.RoleResidential})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected listed role to pass, got %d", rr.Code)
	}
}
