package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhmall/mall-api/internal/domain"
)

type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Create(ctx context.Context, guest domain.Guest) error {
	const stmt = `
INSERT INTO guests (order_no, name, phone, password_hash)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, guest.OrderNo, guest.Name, guest.Phone, guest.PasswordHash)
	if err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (r *GuestRepository) GetByOrderNo(ctx context.Context, orderNo string) (domain.Guest, error) {
	const query = `SELECT order_no, name, phone, password_hash FROM guests WHERE order_no = $1`

	var g domain.Guest
	err := r.queryRow(ctx, query, orderNo).Scan(&g.OrderNo, &g.Name, &g.Phone, &g.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Guest{}, domain.ErrNotOrderOwner
		}
		return domain.Guest{}, fmt.Errorf("get guest: %w", err)
	}
	return g, nil
}

func (r *GuestRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *GuestRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
