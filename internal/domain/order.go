package domain

// OrderStatusPending is the fixed initial status of every submitted order.
const OrderStatusPending = "pendiente"

// Order is the one-shot payload posted to the orders backend. Field names
// match the backend's wire contract.
type Order struct {
	Total  float64     `json:"total"`
	Status string      `json:"estado"`
	Items  []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID   int64   `json:"producto_id"`
	ProductName string  `json:"nombre_producto"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precio_unitario"`
	Subtotal    float64 `json:"subtotal"`
}
