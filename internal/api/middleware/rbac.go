package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/authbase/identity-api/internal/api/metrics"
	"github.com/authbase/identity-api/internal/core/domain"
)

// RBAC enforces role-based access control with ANY-of semantics: the request
// proceeds when the actor holds at least one of the required roles. An empty
// requirement list always allows. Must run after Auth, which establishes the
// actor's role set in the context.
func RBAC(requiredRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := c.Get(CtxRoles).(domain.RoleSet)
			if !domain.Authorized(requiredRoles, actor) {
				metrics.AuthzDeniedTotal.Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
