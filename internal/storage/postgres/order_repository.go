package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhmall/mall-api/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (order_no, member_id, total_amount, status, created_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5)`

	_, err := r.exec(ctx, stmt,
		order.OrderNo,
		order.MemberID,
		order.TotalAmount,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// Finalize attaches recipient and payment details and moves the order to
// pending_payment, but only while it still is pending_order. Returns false
// when the order already advanced; that is an expected outcome, not an error.
func (r *OrderRepository) Finalize(ctx context.Context, orderNo string, rcpt domain.Recipient, account domain.PaymentAccount) (bool, error) {
	const stmt = `
UPDATE orders
SET to_name = $2, to_phone = $3, to_zipcode = $4, to_addr = $5,
    bank_name = $6, account_no = $7, status = $8
WHERE order_no = $1 AND status = $9`

	tag, err := r.exec(ctx, stmt,
		orderNo,
		rcpt.Name,
		rcpt.Phone,
		rcpt.Zipcode,
		rcpt.Addr,
		account.BankName,
		account.AccountNo,
		domain.OrderStatusPendingPayment,
		domain.OrderStatusPendingOrder,
	)
	if err != nil {
		return false, fmt.Errorf("finalize order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// TransitionStatus is a compare-and-swap on the status column.
func (r *OrderRepository) TransitionStatus(ctx context.Context, orderNo string, expected, next domain.OrderStatus) (bool, error) {
	const stmt = `UPDATE orders SET status = $3 WHERE order_no = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, orderNo, expected, next)
	if err != nil {
		return false, fmt.Errorf("transition status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (domain.Order, error) {
	const query = `
SELECT order_no, COALESCE(member_id, ''), total_amount, status,
       COALESCE(to_name, ''), COALESCE(to_phone, ''), COALESCE(to_zipcode, ''), COALESCE(to_addr, ''),
       COALESCE(bank_name, ''), COALESCE(account_no, ''), created_at
FROM orders
WHERE order_no = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, orderNo).Scan(
		&o.OrderNo, &o.MemberID, &o.TotalAmount, &o.Status,
		&o.RecipientName, &o.RecipientPhone, &o.RecipientZipcode, &o.RecipientAddr,
		&o.BankName, &o.AccountNo, &o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) ListByMember(ctx context.Context, memberID string) ([]domain.Order, error) {
	const query = `
SELECT order_no, COALESCE(member_id, ''), total_amount, status,
       COALESCE(to_name, ''), COALESCE(to_phone, ''), COALESCE(to_zipcode, ''), COALESCE(to_addr, ''),
       COALESCE(bank_name, ''), COALESCE(account_no, ''), created_at
FROM orders
WHERE member_id = $1
ORDER BY created_at, order_no`

	rows, err := r.query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.OrderNo, &o.MemberID, &o.TotalAmount, &o.Status,
			&o.RecipientName, &o.RecipientPhone, &o.RecipientZipcode, &o.RecipientAddr,
			&o.BankName, &o.AccountNo, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
