package handlers

import (
	"errors"
	"strconv"
)

var errInvalidPagination = errors.New("page and limit must be positive integers")

// parsePaginationParams reads the optional page/limit query values. paged is
// false when neither is given, in which case callers return everything.
func parsePaginationParams(pageStr, limitStr string) (page, limit int, paged bool, err error) {
	page, limit = 1, 20
	if pageStr == "" && limitStr == "" {
		return page, limit, false, nil
	}

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, false, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			return 0, 0, false, errInvalidPagination
		}
		limit = l
	}

	return page, limit, true, nil
}

// paginate returns the page-th window of items, or an empty slice past the end.
func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
