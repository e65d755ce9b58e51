package card

import (
	"time"

	"github.com/cardly-iq/cardly/internal/models"
)

// State is the observable lifecycle state of a card at a point in time.
type State string

// Card lifecycle states. Exactly one applies to any lookup result.
const (
	// StateNotFound means no record matched the supplied identifier or the lookup failed.
	StateNotFound State = "not_found"
	// StateExpired means the card's expiry is strictly in the past.
	StateExpired State = "expired"
	// StatePendingActivation means the card exists, is not expired, and is not yet activated.
	StatePendingActivation State = "pending_activation"
	// StateActive means the card exists, is not expired, and has been activated.
	StateActive State = "active"
)

// Resolve computes the lifecycle state for a fetched card record.
//
// A nil record resolves to StateNotFound: not-found requires no successful fetch,
// so it takes precedence over every other condition. The expiry check runs before
// the active flag is consulted, so an expired card is never reported as pending
// activation regardless of its stored flags. Expiry is a derived predicate over
// the stored instant and is re-evaluated on every call, never persisted.
func Resolve(rec *models.DiscountCard, now time.Time) State {
	if rec == nil {
		return StateNotFound
	}
	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(now) {
		return StateExpired
	}
	if !rec.Active {
		return StatePendingActivation
	}
	return StateActive
}
