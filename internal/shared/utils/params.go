package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/shared/errors"
)

// ParseUintParam reads a positive numeric id from a route parameter.
// entityName is used in error messages (e.g. "assignment", "escalation").
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(id), nil
}

// ParseUintQuery reads an optional positive numeric query value. ok is false when absent.
func ParseUintQuery(c *gin.Context, key string) (value uint, ok bool, err error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false, errors.NewValidationError("invalid " + key)
	}
	return uint(n), true, nil
}
