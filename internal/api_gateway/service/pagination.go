package service

import "math"

// pageOffset returns the number of items before page. Pages start at 1; an offset past
// math.MaxInt saturates so huge page numbers yield an empty page instead of wrapping.
func pageOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	skip := page - 1
	if skip > math.MaxInt/perPage {
		return math.MaxInt
	}
	return skip * perPage
}
