// Package pricing resolves a concrete entry price from a trade intent under
// a configured policy, and defines the shared quote types.
package pricing

import (
	"strings"

	"github.com/rustyeddy/signalcopy/signal"
)

// Entry strategies for range intents. Min and Auto are synonyms: both enter
// at the conservative edge of the stated range (long at the low, short at
// the high). Max inverts that. Unknown strategy strings fall back to Auto.
const (
	StrategyAuto = "auto"
	StrategyMin  = "min"
	StrategyMax  = "max"
)

// Policy configures entry resolution. CentralZoneOffset pushes the resolved
// price deeper into (or out of) the stated range: added for longs,
// subtracted for shorts. Single-price intents bypass the policy entirely.
type Policy struct {
	Strategy          string
	CentralZoneOffset float64
}

// ResolveEntry computes the pending-order entry price for an intent.
// Single-price intents return that price unchanged, policy ignored. The
// function is deterministic and side-effect-free.
func ResolveEntry(intent *signal.TradeIntent, policy Policy) float64 {
	if !intent.IsRange() {
		return intent.EntryPrice
	}

	r := intent.EntryRange
	long := intent.Side == signal.Long

	var price float64
	switch strings.ToLower(strings.TrimSpace(policy.Strategy)) {
	case StrategyMax:
		if long {
			price = r.High
		} else {
			price = r.Low
		}
	default: // auto, min, and anything unrecognized
		if long {
			price = r.Low
		} else {
			price = r.High
		}
	}

	if policy.CentralZoneOffset != 0 {
		if long {
			price += policy.CentralZoneOffset
		} else {
			price -= policy.CentralZoneOffset
		}
	}

	return price
}
