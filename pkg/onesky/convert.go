package onesky

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func unixTime(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}

// parsePercent reads progress values such as "92%" or "100.0%".
func parsePercent(s *string) (*apd.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(*s), "%"))
	d, _, err := apd.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse percentage %q: %w", *s, err)
	}
	return d, nil
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDecimal(a, b *apd.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
