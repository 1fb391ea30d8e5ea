package pagination

// Meta describes where a page sits in the full result.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds page metadata for total items under p.
func NewMeta(p Params, total int) Meta {
	_, size := p.OffsetLimit()
	if size == 0 {
		size = total
	}

	current := p.Page
	if current == 0 {
		current = 1
		if size > 0 {
			current = p.Offset/size + 1
		}
	}

	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}

	return Meta{
		CurrentPage: current,
		PageSize:    size,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: current > 1,
		HasNext:     current < pages,
	}
}
