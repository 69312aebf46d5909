package model

type Product struct {
	BaseModel
	Slug          string  `db:"slug" json:"slug"`
	Title         string  `db:"title" json:"title"`
	Category      *string `db:"category" json:"category"` // Nullable
	Description   *string `db:"description" json:"description"`
	Composition   *string `db:"composition" json:"composition"`
	Certification *string `db:"certification" json:"certification"`
	Status        string  `db:"status" json:"status"`
	Popular       *int    `db:"popular" json:"popular"` // Home page slot 1..4
	Preview       *int    `db:"preview" json:"preview"` // Home page slot 1..3
	Colors        []Color `db:"-" json:"colors"`        // Loaded separately
}

type Color struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Images    []Image   `db:"-" json:"images"`
	Variants  []Variant `db:"-" json:"variants"`
}

type Variant struct {
	BaseModel
	ColorID  string `db:"color_id" json:"color_id"`
	Size     string `db:"size" json:"size"`
	SizeSort int    `db:"size_sort" json:"size_sort"`
	Price    int64  `db:"price" json:"price"` // Whole currency units
	Stock    int    `db:"stock" json:"stock"`
	SKU      string `db:"sku" json:"sku"`
	Status   string `db:"status" json:"status"`
}

func (v Variant) IsActive() bool {
	return v.Status == StatusActive
}

type Image struct {
	ID        string `db:"id" json:"id"`
	ColorID   string `db:"color_id" json:"color_id"`
	URL       string `db:"url" json:"url"`
	Alt       string `db:"alt" json:"alt"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// PurchasableVariant is an active variant joined with the color and product
// fields an order line snapshots.
type PurchasableVariant struct {
	ID           string `db:"id"`
	Size         string `db:"size"`
	Price        int64  `db:"price"`
	Stock        int    `db:"stock"`
	ColorName    string `db:"color_name"`
	ProductID    string `db:"product_id"`
	ProductTitle string `db:"product_title"`
	ProductSlug  string `db:"product_slug"`
}
