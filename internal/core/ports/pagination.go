package ports

// PageOffset returns the number of rows to skip for a 1-based page. ok is
// false when the page starts past total, in which case the page is empty.
// The product page*limit is never formed, so huge pages cannot overflow.
func PageOffset(page, limit int, total int64) (offset int64, ok bool) {
	if page < 1 || limit < 1 {
		return 0, false
	}
	skipped := int64(page - 1)
	if skipped > total/int64(limit) {
		return 0, false
	}
	offset = skipped * int64(limit)
	if offset >= total {
		return 0, false
	}
	return offset, true
}
