package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityHeader carries the verified caller identity. Authentication is an
// external collaborator: the auth layer in front of this service validates
// the client's credentials and forwards the subject in this header.
const IdentityHeader = "X-User-ID"

const identityKey = "userID"

// RequireIdentity rejects requests that arrive without a verified identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(IdentityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{
				Success: false,
				Message: "Authentication required",
			})
			return
		}
		c.Set(identityKey, userID)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(identityKey)
}
