package order

import (
	"errors"
	"math"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to order")

// Build derives the order payload from the cart. Pure and deterministic:
// no I/O, same cart always yields the same order.
//
// Subtotals are rounded from the raw price×quantity product rather than
// from the already-rounded unit price; rounding the unit first loses a
// cent on sub-cent prices (10.01 vs 10.00 for 5.005×2).
func Build(cart *domain.Cart) (*domain.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	var total float64
	for _, line := range cart.Items {
		subtotal := round2(line.Price * float64(line.Quantity))
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   round2(line.Price),
			Subtotal:    subtotal,
		})
		total += subtotal
	}

	return &domain.Order{
		Total:  round2(total),
		Status: domain.OrderStatusPending,
		Items:  items,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
