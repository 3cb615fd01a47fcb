package domain

// Guest identifies the owner of an order placed without a member account.
// Ownership checks compare a caller-supplied password against PasswordHash.
type Guest struct {
	OrderNo      string
	Name         string
	Phone        string
	PasswordHash string
}
