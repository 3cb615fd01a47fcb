package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendingOrder   OrderStatus = "pending_order"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order is a purchase against the shared inventory. MemberID is empty for
// guest orders; recipient and payment fields stay empty until finalization.
type Order struct {
	OrderNo     string
	MemberID    string
	TotalAmount int64
	Status      OrderStatus

	RecipientName    string
	RecipientPhone   string
	RecipientZipcode string
	RecipientAddr    string

	BankName  string
	AccountNo string

	CreatedAt time.Time
}

// Recipient carries the shipping details attached at finalization.
type Recipient struct {
	Name    string
	Phone   string
	Zipcode string
	Addr    string
}

// PaymentAccount is the virtual account a finalized order is paid into.
type PaymentAccount struct {
	BankName  string
	AccountNo string
}
