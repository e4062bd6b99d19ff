package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-portal-api/internal/domain"
	jwtinfra "github.com/campus-portal-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole_NoClaimsInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"staff on admin route", domain.RoleStaff, []string{domain.RoleAdmin}, http.StatusForbidden},
		{"admin on admin route", domain.RoleAdmin, []string{domain.RoleAdmin}, http.StatusOK},
		{"staff on dashboard route", domain.RoleStaff, []string{domain.RoleAdmin, domain.RoleStaff}, http.StatusOK},
		{"empty role", "", []string{domain.RoleAdmin, domain.RoleStaff}, http.StatusForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := WithClaims(context.Background(), &jwtinfra.Claims{AdminID: "a1", Role: c.role})
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			rr := httptest.NewRecorder()
			RequireRole(c.allowed...)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
			assert.Equal(t, c.want, rr.Code)
		})
	}
}
