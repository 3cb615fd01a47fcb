package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhmall/mall-api/internal/domain"
)

type OrderLineRepository struct {
	pool *pgxpool.Pool
}

func NewOrderLineRepository(pool *pgxpool.Pool) *OrderLineRepository {
	return &OrderLineRepository{pool: pool}
}

func (r *OrderLineRepository) Record(ctx context.Context, lines []domain.OrderLine) error {
	const stmt = `
INSERT INTO order_lines (order_no, option_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)`

	for _, line := range lines {
		if _, err := r.exec(ctx, stmt, line.OrderNo, line.OptionID, line.Quantity, line.UnitPrice); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("record order line: %w", err)
		}
	}
	return nil
}

func (r *OrderLineRepository) ListByOrderNo(ctx context.Context, orderNo string) ([]domain.OrderLine, error) {
	const query = `
SELECT order_no, option_id, quantity, unit_price
FROM order_lines
WHERE order_no = $1
ORDER BY option_id`

	rows, err := r.query(ctx, query, orderNo)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderNo, &l.OptionID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

func (r *OrderLineRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderLineRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
