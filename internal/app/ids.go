package app

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// newOrderNo builds a human-referenceable order number: the order date
// followed by a random suffix, e.g. "20260901-3F9A21C4".
func newOrderNo(now time.Time) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(b))
}
