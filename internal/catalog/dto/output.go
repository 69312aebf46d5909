package dto

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type ProductSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Category  *string  `json:"category"`
	PriceFrom int64    `json:"priceFrom"`
	Thumb     *Image   `json:"thumb"`
	Sizes     []string `json:"sizes"`
	Colors    []string `json:"colors"`
}

type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

type ColorOption struct {
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`
}

type Filters struct {
	Categories []string      `json:"categories"`
	Sizes      []string      `json:"sizes"`
	Colors     []ColorOption `json:"colors"`
	MinPrice   int64         `json:"minPrice"`
	MaxPrice   int64         `json:"maxPrice"`
}

type Variant struct {
	ID       string `json:"id"`
	Size     string `json:"size"`
	SizeSort int    `json:"sizeSort"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
	SKU      string `json:"sku"`
	Status   string `json:"status"`
}

type Color struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Images   []Image   `json:"images"`
	Variants []Variant `json:"variants"`
}

type ProductDetail struct {
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	Composition   *string `json:"composition"`
	Certification *string `json:"certification"`
	Status        string  `json:"status"`
	Colors        []Color `json:"colors"`
}

type Featured struct {
	Popular []ProductSummary `json:"popular"`
	Preview []ProductSummary `json:"preview"`
}
