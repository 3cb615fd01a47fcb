package app

import (
	"context"

	"github.com/mhmall/mall-api/internal/clock"
	"github.com/mhmall/mall-api/internal/domain"
	"github.com/mhmall/mall-api/internal/metrics"
)

// OrderSelection is one (option, quantity) pair of a placement request.
type OrderSelection struct {
	OptionID string
	Quantity int
}

// OrderOwner identifies who is acting on an order: a logged-in member or a
// guest presenting the order password. Both member and guest flows share
// one state machine; only the ownership check differs.
type OrderOwner interface {
	isOrderOwner()
}

type MemberOwner struct {
	ID string
}

func (MemberOwner) isOrderOwner() {}

type GuestOwner struct {
	Name     string
	Phone    string
	Password string
}

func (GuestOwner) isOrderOwner() {}

// Transactor scopes a function to a single storage transaction. Every
// write inside fn commits together or not at all.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OptionRepository is the inventory ledger. Reserve is the authoritative
// check-and-decrement; ExistsAll and HasSufficientStock are advisory reads
// used to produce distinct rejections before any write happens.
type OptionRepository interface {
	ExistsAll(ctx context.Context, optionIDs []string) (bool, error)
	HasSufficientStock(ctx context.Context, selections []OrderSelection) (bool, error)
	Reserve(ctx context.Context, selections []OrderSelection) error
	Restore(ctx context.Context, selections []OrderSelection) error
	TotalPrice(ctx context.Context, selections []OrderSelection) (int64, error)
	FindByIDs(ctx context.Context, optionIDs []string) ([]domain.Option, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	Finalize(ctx context.Context, orderNo string, rcpt domain.Recipient, account domain.PaymentAccount) (bool, error)
	TransitionStatus(ctx context.Context, orderNo string, expected, next domain.OrderStatus) (bool, error)
	GetByOrderNo(ctx context.Context, orderNo string) (domain.Order, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Order, error)
}

type OrderLineRepository interface {
	Record(ctx context.Context, lines []domain.OrderLine) error
	ListByOrderNo(ctx context.Context, orderNo string) ([]domain.OrderLine, error)
}

type GuestRepository interface {
	Create(ctx context.Context, guest domain.Guest) error
	GetByOrderNo(ctx context.Context, orderNo string) (domain.Guest, error)
}

// CredentialHasher hashes and verifies guest order passwords.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// PaymentAllocator assigns the virtual account an order is paid into.
// The account value is opaque to the order core.
type PaymentAllocator interface {
	Allocate(ctx context.Context, orderNo string, amount int64) (domain.PaymentAccount, error)
}

type OrderServiceDeps struct {
	Tx       Transactor
	Options  OptionRepository
	Orders   OrderRepository
	Lines    OrderLineRepository
	Guests   GuestRepository
	Hasher   CredentialHasher
	Payments PaymentAllocator
	Clock    clock.Clock
	Metrics  *metrics.OrderMetrics
}

// OrderService owns the order state machine: place (pending_order),
// finalize (pending_order -> pending_payment) and cancel
// (pending_payment -> cancelled, restoring stock).
type OrderService struct {
	tx       Transactor
	options  OptionRepository
	orders   OrderRepository
	lines    OrderLineRepository
	guests   GuestRepository
	hasher   CredentialHasher
	payments PaymentAllocator
	clock    clock.Clock
	metrics  *metrics.OrderMetrics
}

func NewOrderService(d OrderServiceDeps) *OrderService {
	return &OrderService{
		tx:       d.Tx,
		options:  d.Options,
		orders:   d.Orders,
		lines:    d.Lines,
		guests:   d.Guests,
		hasher:   d.Hasher,
		payments: d.Payments,
		clock:    d.Clock,
		metrics:  d.Metrics,
	}
}

type PlaceOrderInput struct {
	Owner      OrderOwner
	Selections []OrderSelection
}

// PlaceOrder validates the selection against the catalog, creates the
// order with its lines and reserves stock, all in one transaction. A
// failure at any step leaves no trace: no order, no lines, no reservation.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (string, error) {
	if err := validateSelections(in.Selections); err != nil {
		return "", err
	}
	if err := validateOwnerForPlacement(in.Owner); err != nil {
		return "", err
	}

	optionIDs := make([]string, len(in.Selections))
	for i, sel := range in.Selections {
		optionIDs[i] = sel.OptionID
	}

	var orderNo string
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		ok, err := s.options.ExistsAll(txCtx, optionIDs)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUnknownOption
		}

		ok, err = s.options.HasSufficientStock(txCtx, in.Selections)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientStock
		}

		total, err := s.options.TotalPrice(txCtx, in.Selections)
		if err != nil {
			return err
		}

		options, err := s.options.FindByIDs(txCtx, optionIDs)
		if err != nil {
			return err
		}
		priceByID := make(map[string]int64, len(options))
		for _, opt := range options {
			priceByID[opt.ID] = opt.UnitPrice
		}

		now := s.clock.Now()
		orderNo = newOrderNo(now)

		order := domain.Order{
			OrderNo:     orderNo,
			TotalAmount: total,
			Status:      domain.OrderStatusPendingOrder,
			CreatedAt:   now,
		}
		if member, ok := in.Owner.(MemberOwner); ok {
			order.MemberID = member.ID
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		if guest, ok := in.Owner.(GuestOwner); ok {
			hash, err := s.hasher.Hash(guest.Password)
			if err != nil {
				return err
			}
			if err := s.guests.Create(txCtx, domain.Guest{
				OrderNo:      orderNo,
				Name:         guest.Name,
				Phone:        guest.Phone,
				PasswordHash: hash,
			}); err != nil {
				return err
			}
		}

		lines := make([]domain.OrderLine, len(in.Selections))
		for i, sel := range in.Selections {
			lines[i] = domain.OrderLine{
				OrderNo:   orderNo,
				OptionID:  sel.OptionID,
				Quantity:  sel.Quantity,
				UnitPrice: priceByID[sel.OptionID],
			}
		}
		if err := s.lines.Record(txCtx, lines); err != nil {
			return err
		}

		// The advisory stock check above can go stale under concurrency;
		// Reserve re-checks inside the same transaction and is the only
		// call allowed to decrement.
		return s.options.Reserve(txCtx, in.Selections)
	})
	if err != nil {
		if err == domain.ErrInsufficientStock {
			s.metrics.StockRejected()
		}
		return "", err
	}

	s.metrics.OrderPlaced()
	return orderNo, nil
}

type FinalizeOrderInput struct {
	OrderNo   string
	Owner     OrderOwner
	Recipient domain.Recipient
}

// FinalizeOrder attaches recipient details and a payment account, moving
// the order from pending_order to pending_payment. The status move is
// conditional: if the order advanced concurrently, finalize fails without
// touching it.
func (s *OrderService) FinalizeOrder(ctx context.Context, in FinalizeOrderInput) (domain.Order, error) {
	if in.OrderNo == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if err := validateRecipient(in.Recipient); err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.GetByOrderNo(ctx, in.OrderNo)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.checkOwnership(ctx, order, in.Owner); err != nil {
		return domain.Order{}, err
	}
	if order.Status != domain.OrderStatusPendingOrder {
		return domain.Order{}, domain.ErrOrderNotPending
	}

	account, err := s.payments.Allocate(ctx, in.OrderNo, order.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}

	ok, err := s.orders.Finalize(ctx, in.OrderNo, in.Recipient, account)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, domain.ErrOrderFinalizeFailed
	}

	finalized, err := s.orders.GetByOrderNo(ctx, in.OrderNo)
	if err != nil {
		return domain.Order{}, err
	}
	s.metrics.OrderFinalized()
	return finalized, nil
}

type CancelOrderInput struct {
	OrderNo string
	Owner   OrderOwner
}

// CancelOrder moves a pending_payment order to cancelled and restores the
// reserved stock. The compare-and-swap on status runs first; stock is
// restored only when this call won the swap, so two racing cancels restore
// at most once.
func (s *OrderService) CancelOrder(ctx context.Context, in CancelOrderInput) error {
	if in.OrderNo == "" {
		return domain.ErrInvalidID
	}

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByOrderNo(txCtx, in.OrderNo)
		if err != nil {
			return err
		}
		if err := s.checkOwnership(txCtx, order, in.Owner); err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPendingPayment {
			return domain.ErrCancelNotAllowed
		}

		ok, err := s.orders.TransitionStatus(txCtx, in.OrderNo,
			domain.OrderStatusPendingPayment, domain.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConcurrentConflict
		}

		lines, err := s.lines.ListByOrderNo(txCtx, in.OrderNo)
		if err != nil {
			return err
		}
		selections := make([]OrderSelection, len(lines))
		for i, line := range lines {
			selections[i] = OrderSelection{OptionID: line.OptionID, Quantity: line.Quantity}
		}
		return s.options.Restore(txCtx, selections)
	})
	if err != nil {
		return err
	}

	s.metrics.OrderCancelled()
	return nil
}

// GetOrder returns an order and its lines after an ownership check.
func (s *OrderService) GetOrder(ctx context.Context, orderNo string, owner OrderOwner) (domain.Order, []domain.OrderLine, error) {
	if orderNo == "" {
		return domain.Order{}, nil, domain.ErrInvalidID
	}

	order, err := s.orders.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if err := s.checkOwnership(ctx, order, owner); err != nil {
		return domain.Order{}, nil, err
	}

	lines, err := s.lines.ListByOrderNo(ctx, orderNo)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return order, lines, nil
}

func (s *OrderService) ListMemberOrders(ctx context.Context, memberID string) ([]domain.Order, error) {
	if memberID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.orders.ListByMember(ctx, memberID)
}

func (s *OrderService) checkOwnership(ctx context.Context, order domain.Order, owner OrderOwner) error {
	switch o := owner.(type) {
	case MemberOwner:
		if o.ID == "" || order.MemberID != o.ID {
			return domain.ErrNotOrderOwner
		}
		return nil
	case GuestOwner:
		if order.MemberID != "" {
			return domain.ErrNotOrderOwner
		}
		guest, err := s.guests.GetByOrderNo(ctx, order.OrderNo)
		if err != nil {
			return err
		}
		if !s.hasher.Compare(guest.PasswordHash, o.Password) {
			return domain.ErrNotOrderOwner
		}
		return nil
	default:
		return domain.ErrNotOrderOwner
	}
}

func validateSelections(selections []OrderSelection) error {
	if len(selections) == 0 {
		return domain.ErrInvalidQuantity
	}
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if sel.OptionID == "" {
			return domain.ErrInvalidID
		}
		if sel.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
		if _, dup := seen[sel.OptionID]; dup {
			return domain.ErrInvalidID
		}
		seen[sel.OptionID] = struct{}{}
	}
	return nil
}

func validateOwnerForPlacement(owner OrderOwner) error {
	switch o := owner.(type) {
	case MemberOwner:
		if o.ID == "" {
			return domain.ErrInvalidID
		}
	case GuestOwner:
		if o.Name == "" || o.Phone == "" || o.Password == "" {
			return domain.ErrGuestDetailsRequired
		}
	default:
		return domain.ErrInvalidID
	}
	return nil
}

func validateRecipient(r domain.Recipient) error {
	if r.Name == "" || r.Phone == "" || r.Zipcode == "" || r.Addr == "" {
		return domain.ErrRecipientRequired
	}
	return nil
}
