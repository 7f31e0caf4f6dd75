package handlers

import (
	"fmt"
	"strconv"
)

const (
	defaultOrderPage  = int64(1)
	defaultOrderLimit = int64(20)
)

// parsePaginationParams parses the page/limit query values, falling back to
// the defaults when a value is absent. Non-numeric or non-positive values are
// rejected rather than clamped.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := defaultOrderPage
	limit := defaultOrderLimit

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}
