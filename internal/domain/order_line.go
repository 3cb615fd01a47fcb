package domain

// OrderLine records one purchased option on an order. UnitPrice is
// snapshotted at purchase time and never recomputed.
type OrderLine struct {
	OrderNo   string
	OptionID  string
	Quantity  int
	UnitPrice int64
}
