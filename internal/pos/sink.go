package pos

import "cafepos/internal/models"

// OrderSink receives products picked from the menu. Both a session cart and
// an open order accept picks through it, so menu code does not care which
// one is on screen.
type OrderSink interface {
	AddProductToOrder(product models.Product, quantity int, notes string) bool
}

type orderSink struct {
	lc    *Lifecycle
	order *models.Order
}

func (s orderSink) AddProductToOrder(product models.Product, quantity int, notes string) bool {
	return s.lc.AddProductToOrder(s.order, product, quantity, notes)
}

// Sink binds order to the lifecycle as an OrderSink.
func (lc *Lifecycle) Sink(order *models.Order) OrderSink {
	return orderSink{lc: lc, order: order}
}

var (
	_ OrderSink = (*Cart)(nil)
	_ OrderSink = orderSink{}
)
