package util

// Page clamps user-supplied pagination and converts it to an offset/limit
// pair. Size defaults to 50 and caps at 100.
func Page(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return (page - 1) * size, size
}
