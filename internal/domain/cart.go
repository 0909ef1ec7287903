package domain

import "time"

// Cart holds one session's line items. At most one line per product id.
type Cart struct {
	ID        string     `json:"-" bson:"_id,omitempty"`
	SessionID string     `json:"session_id" bson:"session_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// CartItem carries the product fields alongside the quantity, so the cart
// renders without another catalog round trip.
type CartItem struct {
	ProductID   int64   `json:"product_id" bson:"product_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"image_url" bson:"image_url"`
	Quantity    int     `json:"quantity" bson:"quantity"`
}

// Total sums price×quantity over all lines. No rounding here; display and
// order building round at their own boundaries.
func (c *Cart) Total() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// Size is the total unit count across lines (the cart badge number).
func (c *Cart) Size() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
