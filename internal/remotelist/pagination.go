package remotelist

import "strconv"

// DefaultPageSize matches the backend's PAGE_SIZE.
const DefaultPageSize = 10

// TotalPages returns the number of pages needed for count items. It is never
// less than one and exact multiples do not produce a trailing empty page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count < pageSize {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// pageFromURL derives the 1-based page addressed by the limit/offset
// parameters of rawURL.
func pageFromURL(rawURL string, pageSize int) int {
	offset := intParam(rawURL, "offset", 0)
	limit := intParam(rawURL, "limit", pageSize)
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset <= 0 {
		return 1
	}
	return offset/limit + 1
}

func intParam(rawURL, name string, fallback int) int {
	v, ok := QueryParam(rawURL, name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
