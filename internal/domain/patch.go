package domain

// ProductPatch is a partial product update. Nil fields leave the stored
// value unchanged; non-nil fields replace it.
type ProductPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Category    *string   `json:"category"`
}

// Apply merges the patch over p, field by field
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Images != nil {
		p.Images = append([]string(nil), (*patch.Images)...)
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
}

// OrderPatch is a partial order update. In practice only the status is
// ever changed after creation; the items snapshot stays immutable.
type OrderPatch struct {
	Status          *OrderStatus `json:"status"`
	Total           *float64     `json:"total"`
	ShippingAddress *string      `json:"shippingAddress"`
}

// Apply merges the patch over o
func (patch OrderPatch) Apply(o *Order) {
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.Total != nil {
		o.Total = *patch.Total
	}
	if patch.ShippingAddress != nil {
		o.ShippingAddress = *patch.ShippingAddress
	}
}
