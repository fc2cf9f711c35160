package middleware

import (
	"net/http"

	"hotel/internal/modules/access"
	"hotel/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const MsgForbidden = "You do not have permission to perform this action."

// RequirePermission lets the request through only when the actor may perform op on resource.
func RequirePermission(resource access.Resource, op access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authorize(c, resource, op) {
			return
		}
		c.Next()
	}
}

// Authorize checks the policy inside a handler and writes the rejection itself.
func Authorize(c *gin.Context, resource access.Resource, op access.Operation) bool {
	actor := ActorFrom(c)
	if actor == nil {
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return false
	}
	if !access.Allow(actor, op, resource) {
		response.Abort(c, http.StatusForbidden, "FORBIDDEN", MsgForbidden)
		return false
	}
	return true
}
