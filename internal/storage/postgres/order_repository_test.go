package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhmall/mall-api/internal/domain"
	"github.com/mhmall/mall-api/internal/testutil"
)

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewOrderRepository(pool)
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("member order round trips", func(t *testing.T) {
		order := domain.Order{
			OrderNo:     "20260901-AAAA0001",
			MemberID:    "member-1",
			TotalAmount: 39000,
			Status:      domain.OrderStatusPendingOrder,
			CreatedAt:   now,
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := repo.GetByOrderNo(ctx, order.OrderNo)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.MemberID != "member-1" || got.TotalAmount != 39000 || got.Status != domain.OrderStatusPendingOrder {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("guest order stores a NULL member id", func(t *testing.T) {
		order := domain.Order{
			OrderNo:     "20260901-AAAA0002",
			TotalAmount: 5000,
			Status:      domain.OrderStatusPendingOrder,
			CreatedAt:   now,
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create: %v", err)
		}

		var isNull bool
		if err := pool.QueryRow(ctx,
			`SELECT member_id IS NULL FROM orders WHERE order_no = $1`, order.OrderNo,
		).Scan(&isNull); err != nil {
			t.Fatalf("read member_id: %v", err)
		}
		if !isNull {
			t.Fatalf("expected NULL member_id for a guest order")
		}

		got, err := repo.GetByOrderNo(ctx, order.OrderNo)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.MemberID != "" {
			t.Fatalf("expected empty member id, got %q", got.MemberID)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		if _, err := repo.GetByOrderNo(ctx, "nope"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderRepository_Finalize(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewOrderRepository(pool)
	testutil.InsertOrder(t, ctx, pool, domain.Order{
		OrderNo: "20260901-BBBB0001", MemberID: "member-1",
		TotalAmount: 10000, Status: domain.OrderStatusPendingOrder,
	})

	rcpt := domain.Recipient{Name: "Lee", Phone: "010-9999-0000", Zipcode: "04524", Addr: "Seoul"}
	account := domain.PaymentAccount{BankName: "MH Bank", AccountNo: "123456789012"}

	ok, err := repo.Finalize(ctx, "20260901-BBBB0001", rcpt, account)
	if err != nil || !ok {
		t.Fatalf("expected finalize to win, got ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByOrderNo(ctx, "20260901-BBBB0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.OrderStatusPendingPayment {
		t.Fatalf("expected pending_payment, got %s", got.Status)
	}
	if got.RecipientName != "Lee" || got.BankName != "MH Bank" || got.AccountNo != "123456789012" {
		t.Fatalf("expected recipient and account stored, got %+v", got)
	}

	// Already pending_payment, so the conditional update affects no rows.
	ok, err = repo.Finalize(ctx, "20260901-BBBB0001", rcpt, account)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if ok {
		t.Fatalf("expected second finalize to lose the conditional update")
	}
}

func TestOrderRepository_TransitionStatus(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewOrderRepository(pool)
	testutil.InsertOrder(t, ctx, pool, domain.Order{
		OrderNo: "20260901-CCCC0001", MemberID: "member-1",
		TotalAmount: 10000, Status: domain.OrderStatusPendingPayment,
	})

	ok, err := repo.TransitionStatus(ctx, "20260901-CCCC0001",
		domain.OrderStatusPendingPayment, domain.OrderStatusCancelled)
	if err != nil || !ok {
		t.Fatalf("expected swap to win, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.TransitionStatus(ctx, "20260901-CCCC0001",
		domain.OrderStatusPendingPayment, domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("second swap: %v", err)
	}
	if ok {
		t.Fatalf("expected second swap to lose")
	}

	got, err := repo.GetByOrderNo(ctx, "20260901-CCCC0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}

func TestOrderRepository_ListByMember(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewOrderRepository(pool)
	for _, order := range []domain.Order{
		{OrderNo: "20260901-DDDD0001", MemberID: "member-1", TotalAmount: 1000, Status: domain.OrderStatusPendingOrder},
		{OrderNo: "20260901-DDDD0002", MemberID: "member-2", TotalAmount: 2000, Status: domain.OrderStatusPendingOrder},
		{OrderNo: "20260901-DDDD0003", MemberID: "member-1", TotalAmount: 3000, Status: domain.OrderStatusPendingPayment},
	} {
		testutil.InsertOrder(t, ctx, pool, order)
	}

	orders, err := repo.ListByMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o.MemberID != "member-1" {
			t.Fatalf("expected only member-1 orders, got %+v", o)
		}
	}

	orders, err = repo.ListByMember(ctx, "member-3")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders for member-3, got %d", len(orders))
	}
}
