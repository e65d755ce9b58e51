package card

import (
	"testing"
	"time"

	"github.com/cardly-iq/cardly/internal/models"
)

func TestResolveNilRecordIsNotFound(t *testing.T) {
	if state := Resolve(nil, time.Now()); state != StateNotFound {
		t.Fatalf("expected %s, got %s", StateNotFound, state)
	}
}

func TestResolveExpiredWinsOverActiveFlag(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	for _, active := range []bool{true, false} {
		rec := &models.DiscountCard{CardID: "abc", Active: active, ExpiresAt: &past}
		if state := Resolve(rec, now); state != StateExpired {
			t.Fatalf("active=%v: expected %s, got %s", active, StateExpired, state)
		}
	}
}

func TestResolveNoExpiryNeverExpires(t *testing.T) {
	rec := &models.DiscountCard{CardID: "abc", Active: true}
	farFuture := time.Date(2199, 1, 1, 0, 0, 0, 0, time.UTC)
	if state := Resolve(rec, farFuture); state != StateActive {
		t.Fatalf("expected %s, got %s", StateActive, state)
	}
}

func TestResolveInactiveIsPendingActivation(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	for _, rec := range []*models.DiscountCard{
		{CardID: "abc", Active: false},
		{CardID: "abc", Active: false, ExpiresAt: &future},
	} {
		if state := Resolve(rec, now); state != StatePendingActivation {
			t.Fatalf("expected %s, got %s", StatePendingActivation, state)
		}
	}
}

func TestResolveActiveNotExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	rec := &models.DiscountCard{CardID: "abc", Active: true, ExpiresAt: &future}
	if state := Resolve(rec, now); state != StateActive {
		t.Fatalf("expected %s, got %s", StateActive, state)
	}
}

func TestResolveExpiryBoundaryIsStrict(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	exact := now

	rec := &models.DiscountCard{CardID: "abc", Active: true, ExpiresAt: &exact}
	if state := Resolve(rec, now); state != StateActive {
		t.Fatalf("expiry equal to now should not expire: got %s", state)
	}
}
