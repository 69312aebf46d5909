package dto

const (
	SortNew       = "new"
	SortOld       = "old"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"

	DefaultPageSize = 24
	MaxPageSize     = 60
)

type ProductFilters struct {
	SearchQuery string   `json:"q,omitempty"`
	ProductIDs  []string `json:"ids,omitempty"` // Set when a search engine resolved the query
	Category    string   `json:"category,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	ColorSlug   string   `json:"color,omitempty"`
	MinPrice    *int64   `json:"minPrice,omitempty"`
	MaxPrice    *int64   `json:"maxPrice,omitempty"`
	Sort        string   `json:"sort"`
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
}

// HasVariantFilter reports whether any filter applies at variant level.
func (f *ProductFilters) HasVariantFilter() bool {
	return len(f.Sizes) > 0 || f.ColorSlug != "" || f.MinPrice != nil || f.MaxPrice != nil
}

func (f *ProductFilters) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
