package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fadecraft/barbershop-api/internal/timezone"
)

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp and
// anchors it in the shop timezone.
func parseDate(s string) (time.Time, error) {
	loc := timezone.Location("")

	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(timezone.Location("")), nil
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
