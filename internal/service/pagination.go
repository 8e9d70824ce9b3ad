package service

import "github.com/phrazzld/lingodrift-api/internal/domain"

// MaxPageSize caps every list operation.
const MaxPageSize = 100

// normalizePage validates offset and limit and applies the cap.
// A zero limit is valid and means an empty page.
func normalizePage(offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, domain.NewValidationError("offset", "cannot be negative", nil)
	}
	if limit < 0 {
		return 0, 0, domain.NewValidationError("limit", "cannot be negative", nil)
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit, nil
}
