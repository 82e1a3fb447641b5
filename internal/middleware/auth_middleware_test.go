package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	utils.RespondSuccess(c, http.StatusOK, gin.H{"ok": true})
}

func TestAuthMiddleware(t *testing.T) {
	shopID := int64(1)
	token, err := utils.GenerateAccessToken(42, "owner@shop.test", utils.RoleOwner, &shopID)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
				if c.GetInt64(ContextUserIDKey) != 42 {
					t.Errorf("userID = %d, want 42", c.GetInt64(ContextUserIDKey))
				}
				if c.GetString(ContextUserRoleKey) != utils.RoleOwner {
					t.Errorf("role = %q, want owner", c.GetString(ContextUserRoleKey))
				}
				if id, ok := BarbershopIDFromContext(c); !ok || id != 1 {
					t.Errorf("barbershopID = %d (ok=%v), want 1", id, ok)
				}
				okHandler(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"role allowed", utils.RoleOwner, []string{utils.RoleOwner, utils.RoleSuperAdmin}, http.StatusOK},
		{"role allowed case insensitive", "Owner", []string{utils.RoleOwner}, http.StatusOK},
		{"role denied", utils.RoleStaff, []string{utils.RoleOwner}, http.StatusForbidden},
		{"no role in context", "", []string{utils.RoleOwner}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/admin", func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextUserRoleKey, tt.role)
				}
			}, RoleAuthMiddleware(tt.allowed...), okHandler)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestTenantAuthMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		shopInToken *int64
		header      string
		wantStatus  int
		wantScope   int64
	}{
		{
			name:        "scoped staff passes",
			role:        utils.RoleStaff,
			shopInToken: ptrInt64(3),
			wantStatus:  http.StatusOK,
			wantScope:   3,
		},
		{
			name:       "unscoped staff rejected",
			role:       utils.RoleStaff,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "super admin passes without scope",
			role:       utils.RoleSuperAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "super admin picks scope from header",
			role:       utils.RoleSuperAdmin,
			header:     "7",
			wantStatus: http.StatusOK,
			wantScope:  7,
		},
		{
			name:       "super admin bad header rejected",
			role:       utils.RoleSuperAdmin,
			header:     "not-a-number",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/tenant", func(c *gin.Context) {
				c.Set(ContextUserRoleKey, tt.role)
				if tt.shopInToken != nil {
					c.Set(ContextBarbershopIDKey, *tt.shopInToken)
				}
			}, TenantAuthMiddleware(), func(c *gin.Context) {
				if tt.wantScope != 0 {
					if id, ok := BarbershopIDFromContext(c); !ok || id != tt.wantScope {
						t.Errorf("scope = %d (ok=%v), want %d", id, ok, tt.wantScope)
					}
				}
				okHandler(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
			if tt.header != "" {
				req.Header.Set("X-Barbershop-ID", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func ptrInt64(v int64) *int64 { return &v }
