package format

import (
	"strconv"
	"sync"
	"time"
)

// OrderNumberPrefix starts every generated order number.
const OrderNumberPrefix = "ORD-"

// OrderNumberGenerator hands out ORD-<unix-millis> numbers that never repeat,
// even when two orders open in the same millisecond.
type OrderNumberGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewOrderNumberGenerator returns a generator reading the given clock; a nil
// clock means time.Now.
func NewOrderNumberGenerator(now func() time.Time) *OrderNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderNumberGenerator{now: now}
}

// Next returns the next order number.
func (g *OrderNumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return OrderNumberPrefix + strconv.FormatInt(n, 10)
}
