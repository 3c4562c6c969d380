package handlers

import (
	"strconv"

	"foodapi/internal/apperr"
)

// parsePaginationParams reads page and limit. Pagination applies only when
// both are present; set reports whether it does.
func parsePaginationParams(pageStr, limitStr string) (page, limit int64, set bool, err error) {
	if pageStr == "" || limitStr == "" {
		return 0, 0, false, nil
	}

	page, perr := strconv.ParseInt(pageStr, 10, 64)
	if perr != nil || page < 1 {
		return 0, 0, false, apperr.Validation("invalid pagination params", "page must be a positive integer")
	}

	limit, lerr := strconv.ParseInt(limitStr, 10, 64)
	if lerr != nil || limit < 1 || limit > maxPageLimit {
		return 0, 0, false, apperr.Validation("invalid pagination params", "limit must be between 1 and 100")
	}

	return page, limit, true, nil
}

const maxPageLimit = 100
