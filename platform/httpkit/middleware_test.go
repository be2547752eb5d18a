package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRoleTestEngine(roles any) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/campaigns",
		func(c *gin.Context) {
			if roles != nil {
				c.Set(ContextRolesKey, roles)
			}
		},
		RequireRole("manager"),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)
	return engine
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	engine := newRoleTestEngine([]string{"qc", "manager"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for a holder of the role", w.Code)
	}
}

// Token claims decode role arrays as []interface{}; the guard must accept
// that shape too.
func TestRequireRoleAcceptsClaimShapedRoles(t *testing.T) {
	engine := newRoleTestEngine([]interface{}{"manager"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for claim-shaped roles", w.Code)
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	engine := newRoleTestEngine([]string{"qc"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without the role", w.Code)
	}
}

func TestRequireRoleRejectsMissingRoles(t *testing.T) {
	engine := newRoleTestEngine(nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 with no roles in context", w.Code)
	}
}
