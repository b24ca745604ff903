package shared

import "time"

// SortOrder is the direction used when listing time-ordered records.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// IsValid returns true if the sort order is one of the known values.
func (s SortOrder) IsValid() bool {
	return s == SortAscending || s == SortDescending
}

// Filter holds common list query options shared by repositories.
type Filter struct {
	Page     int
	PageSize int
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     SortOrder
}

// Normalize fills defaults for unset filter fields.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if !f.Sort.IsValid() {
		f.Sort = SortDescending
	}
	return f
}

// Offset returns the row offset for the normalized page settings.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
