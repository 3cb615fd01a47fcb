package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/mhmall/mall-api/internal/domain"
)

// VirtualAccountAllocator stands in for the payment gateway that assigns a
// virtual account per finalized order. The account value is opaque to the
// order core; callers only store and echo it.
type VirtualAccountAllocator struct {
	bankName string
}

func NewVirtualAccountAllocator(bankName string) *VirtualAccountAllocator {
	return &VirtualAccountAllocator{bankName: bankName}
}

func (a *VirtualAccountAllocator) Allocate(_ context.Context, _ string, _ int64) (domain.PaymentAccount, error) {
	number, err := randomDigits(12)
	if err != nil {
		return domain.PaymentAccount{}, fmt.Errorf("allocate account: %w", err)
	}
	return domain.PaymentAccount{
		BankName:  a.bankName,
		AccountNo: number,
	}, nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
