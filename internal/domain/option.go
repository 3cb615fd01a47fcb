package domain

import "time"

// Option is a purchasable SKU variant with its own stock counter.
type Option struct {
	ID        string
	Name      string
	UnitPrice int64
	Available int
	CreatedAt time.Time
}
