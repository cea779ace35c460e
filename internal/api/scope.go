package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/models"
)

// Scope headers. Either may be omitted, in which case the server's
// configured value applies.
const (
	HeaderOrganization = "X-Organization-ID"
	HeaderPlant        = "X-Plant-ID"
)

const scopeKey = "laneyard.scope"

// withScope resolves the request scope from headers and stores it on the
// context for handlers.
func withScope(fallback models.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := fallback
		if v := c.GetHeader(HeaderOrganization); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil || id == 0 {
				abortWithError(c, fault.Invalid("organization_id", "header %s must be a positive integer", HeaderOrganization))
				return
			}
			s.OrganizationID = uint(id)
		}
		if v := c.GetHeader(HeaderPlant); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil || id == 0 {
				abortWithError(c, fault.Invalid("plant_id", "header %s must be a positive integer", HeaderPlant))
				return
			}
			s.PlantID = uint(id)
		}
		c.Set(scopeKey, s)
		c.Next()
	}
}

func scopeOf(c *gin.Context) models.Scope {
	if v, ok := c.Get(scopeKey); ok {
		return v.(models.Scope)
	}
	return models.Scope{}
}
