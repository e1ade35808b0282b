package domain

// Product represents a catalog item
type Product struct {
	ID          int64   `json:"id" db:"product_id"`
	Name        string  `json:"name" db:"product_name"`
	Price       float64 `json:"price" db:"product_price"`
	Quantity    int     `json:"quantity" db:"product_quantity"`
	Type        string  `json:"type" db:"product_type"`
	Gender      string  `json:"gender" db:"product_gender"`
	Description string  `json:"description" db:"product_description"`
	PictureURL  *string `json:"picture_url" db:"picture_url"`
	Category    string  `json:"category" db:"category"`
}

// CartItem is the denormalized product copy sent to the cart service when a
// user reserves units of a product.
type CartItem struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	PictureURL  *string `json:"picture_url"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Gender      string  `json:"gender"`
}

// NewCartItem copies the product fields into a cart item for quantity units.
func NewCartItem(p *Product, quantity int) CartItem {
	return CartItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Quantity:    quantity,
		Price:       p.Price,
		Type:        p.Type,
		PictureURL:  p.PictureURL,
		Description: p.Description,
		Category:    p.Category,
		Gender:      p.Gender,
	}
}
