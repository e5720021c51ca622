package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequirePermission(t *testing.T) {
	svc := newTestJWTService()
	employee, _ := newTestToken(t, svc, shared.RoleEmployee)
	admin, _ := newTestToken(t, svc, shared.RoleAdmin)
	customer, _ := newTestToken(t, svc, shared.RoleCustomer)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc, nil, nil))
	router.GET("/reports/sales", RequirePermission(identity.PermReportsRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/fridges", RequireAnyPermission(identity.PermInventoryRead, identity.PermInventoryWrite), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"admin reads reports", "/reports/sales", admin.AccessToken, http.StatusOK},
		{"employee cannot read reports", "/reports/sales", employee.AccessToken, http.StatusForbidden},
		{"employee sees fridges", "/fridges", employee.AccessToken, http.StatusOK},
		{"customer cannot see fridges", "/fridges", customer.AccessToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequirePermission_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.GET("/users", RequirePermission(identity.PermUsersManage), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", errorCode(t, rec))
}

func TestRequirePermission_LogsDenial(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := newTestJWTService()
	customer, userID := newTestToken(t, svc, shared.RoleCustomer)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc, nil, nil))
	router.GET("/contact-messages",
		RequireAnyPermissionWithConfig(PermissionConfig{Logger: zap.New(core)}, identity.PermContactRead),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/contact-messages", nil)
	req.Header.Set("Authorization", "Bearer "+customer.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	entries := logs.FilterMessage("Permission denied").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, userID.String(), entries[0].ContextMap()["user_id"])
	}
}

func TestHasPermission(t *testing.T) {
	svc := newTestJWTService()
	admin, _ := newTestToken(t, svc, shared.RoleAdmin)

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc, nil, nil))
	var granted bool
	router.GET("/x", func(c *gin.Context) {
		granted = HasPermission(c, identity.PermCatalogWrite)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.False(t, granted)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+admin.AccessToken)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, granted)
}
