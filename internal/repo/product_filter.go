package repo

// ProductFilter selects a window of live products. Nil fields do not filter.
type ProductFilter struct {
	CategoryID *int
	Enabled    *bool
	Offset     int
	Limit      int
}
