package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
)

// statusFor maps an error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case fault.KindValidation, fault.KindMissingField:
		return http.StatusUnprocessableEntity
	case fault.KindIllegalTransition:
		return http.StatusConflict
	case fault.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes err as {"error": {kind, field, message}}.
// Internal errors are logged and their text is not sent to the client.
func abortWithError(c *gin.Context, err error) {
	d := fault.Describe(err)
	status := statusFor(d.Kind)
	if status == http.StatusInternalServerError {
		log.Printf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
		d.Message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": d})
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		abortWithError(c, fault.Invalid("body", "malformed JSON: %v", err))
		return false
	}
	return true
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, fault.Invalid("id", "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		abortWithError(c, fault.Invalid(name, "must be a non-negative integer"))
		return 0, false
	}
	return uint(n), true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		abortWithError(c, fault.Invalid(name, "must be an integer"))
		return 0, false
	}
	return n, true
}

func pageRequest(c *gin.Context) (db.PageRequest, bool) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return db.PageRequest{}, false
	}
	size, ok := queryInt(c, "page_size", db.DefaultPageSize)
	if !ok {
		return db.PageRequest{}, false
	}
	return db.PageRequest{Page: page, PageSize: size}, true
}
