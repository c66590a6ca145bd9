package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLatestLimit = 5
	MaxListLimit       = 50
)

// ParsePositiveQuery reads an optional positive integer query parameter.
// It returns def when the parameter is absent and ok=false when it is malformed or not positive.
func ParsePositiveQuery(c *gin.Context, key string, def int) (value int, ok bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ClampLimit caps a list limit at MaxListLimit.
func ClampLimit(limit int) int {
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ParseOptionalIDQuery reads an optional int64 filter such as ?course=3.
func ParseOptionalIDQuery(c *gin.Context, key string) (*int64, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
