package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhmall/mall-api/internal/app"
	"github.com/mhmall/mall-api/internal/domain"
)

// OptionRepository is the inventory ledger over the options table. It also
// serves the catalog admin side (create, list, add stock).
type OptionRepository struct {
	pool *pgxpool.Pool
}

func NewOptionRepository(pool *pgxpool.Pool) *OptionRepository {
	return &OptionRepository{pool: pool}
}

func (r *OptionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OptionRepository) ExistsAll(ctx context.Context, optionIDs []string) (bool, error) {
	const query = `SELECT COUNT(*) FROM options WHERE id = ANY($1)`

	var count int
	if err := r.queryRow(ctx, query, optionIDs).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("count options: %w", err)
	}
	return count == len(optionIDs), nil
}

func (r *OptionRepository) HasSufficientStock(ctx context.Context, selections []app.OrderSelection) (bool, error) {
	const query = `SELECT available_qty FROM options WHERE id = $1`

	for _, sel := range selections {
		var available int
		err := r.queryRow(ctx, query, sel.OptionID).Scan(&available)
		if err != nil {
			if isInvalidUUID(err) {
				return false, domain.ErrInvalidID
			}
			if err == pgx.ErrNoRows {
				return false, nil
			}
			return false, fmt.Errorf("read stock: %w", err)
		}
		if available < sel.Quantity {
			return false, nil
		}
	}
	return true, nil
}

// Reserve decrements stock for every selection, re-checking availability
// in the same statement. Options are processed in sorted id order so
// concurrent batches take row locks in a stable order.
func (r *OptionRepository) Reserve(ctx context.Context, selections []app.OrderSelection) error {
	const stmt = `UPDATE options SET available_qty = available_qty - $2 WHERE id = $1 AND available_qty >= $2`

	for _, sel := range sortSelections(selections) {
		tag, err := r.exec(ctx, stmt, sel.OptionID, sel.Quantity)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("reserve stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			exists, err := r.ExistsAll(ctx, []string{sel.OptionID})
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrUnknownOption
			}
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// Restore puts cancelled quantities back. Callers gate this on a won
// status swap so it runs at most once per order.
func (r *OptionRepository) Restore(ctx context.Context, selections []app.OrderSelection) error {
	const stmt = `UPDATE options SET available_qty = available_qty + $2 WHERE id = $1`

	for _, sel := range sortSelections(selections) {
		tag, err := r.exec(ctx, stmt, sel.OptionID, sel.Quantity)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("restore stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUnknownOption
		}
	}
	return nil
}

func (r *OptionRepository) TotalPrice(ctx context.Context, selections []app.OrderSelection) (int64, error) {
	const query = `SELECT unit_price FROM options WHERE id = $1`

	var total int64
	for _, sel := range selections {
		var price int64
		err := r.queryRow(ctx, query, sel.OptionID).Scan(&price)
		if err != nil {
			if isInvalidUUID(err) {
				return 0, domain.ErrInvalidID
			}
			if err == pgx.ErrNoRows {
				return 0, domain.ErrUnknownOption
			}
			return 0, fmt.Errorf("read price: %w", err)
		}
		total += price * int64(sel.Quantity)
	}
	return total, nil
}

func (r *OptionRepository) FindByIDs(ctx context.Context, optionIDs []string) ([]domain.Option, error) {
	const query = `
SELECT id, name, unit_price, available_qty, created_at
FROM options
WHERE id = ANY($1)`

	rows, err := r.query(ctx, query, optionIDs)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find options: %w", err)
	}
	defer rows.Close()

	return scanOptions(rows)
}

func (r *OptionRepository) CreateOption(ctx context.Context, option domain.Option) error {
	const stmt = `
INSERT INTO options (id, name, unit_price, available_qty, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, option.ID, option.Name, option.UnitPrice, option.Available, option.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOptionAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create option: %w", err)
	}
	return nil
}

func (r *OptionRepository) ListOptions(ctx context.Context) ([]domain.Option, error) {
	const query = `
SELECT id, name, unit_price, available_qty, created_at
FROM options
ORDER BY created_at, id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	return scanOptions(rows)
}

func (r *OptionRepository) AddStock(ctx context.Context, optionID string, quantity int) error {
	const stmt = `UPDATE options SET available_qty = available_qty + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, optionID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("add stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownOption
	}
	return nil
}

func scanOptions(rows pgx.Rows) ([]domain.Option, error) {
	var options []domain.Option
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.Name, &o.UnitPrice, &o.Available, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return options, nil
}

func sortSelections(selections []app.OrderSelection) []app.OrderSelection {
	sorted := append([]app.OrderSelection{}, selections...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OptionID < sorted[j].OptionID })
	return sorted
}

func (r *OptionRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OptionRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OptionRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
