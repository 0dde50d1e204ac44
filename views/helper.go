package views

import (
	"net/http"

	"github.com/GrainArc/ScenarioMap/methods"
	"github.com/gin-gonic/gin"
)

type UrbanController struct {
}

// userID pulls the caller identity the auth layer injected. Deriving the
// identity itself is out of scope here.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-Id")
}

// AbortWithError maps the engine error taxonomy onto HTTP statuses.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case methods.IsNotFound(err), methods.IsNotFoundByParams(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case methods.IsAccessDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case methods.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
