package utils

import "strconv"

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ParsePagination clamps page/limit query values to sane bounds.
func ParsePagination(pageStr, limitStr string) (int, int) {
	page := ParseIntDefault(pageStr, 1)
	limit := ParseIntDefault(limitStr, 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
