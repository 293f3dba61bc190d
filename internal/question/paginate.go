package question

// DefaultPageSize is used when a service is built without an explicit page size.
const DefaultPageSize = 10

// Paginate returns the 1-indexed page of items, i.e. the half-open window
// [(page-1)*pageSize, page*pageSize). Windows past the end, and non-positive
// page or pageSize values, yield an empty slice rather than an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end:end]
}
