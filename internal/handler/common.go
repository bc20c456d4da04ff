package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// errBadDate is returned by parseDate when no accepted layout matches.
var errBadDate = errors.New("invalid date")

// dateLayouts lists the timestamp formats accepted in requests.  The
// browser client historically sent either full RFC3339 timestamps, the
// MySQL datetime format, a datetime-local value, or a bare calendar date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate parses a request-supplied timestamp into a UTC time.Time.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}

// pathID parses a numeric path parameter and rejects zero values.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
