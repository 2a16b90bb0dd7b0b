package venue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/signal"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tick := pricing.Tick{Bid: 1899.5, Ask: 1900.0}

	cases := []struct {
		name  string
		side  signal.Side
		entry float64
		want  OrderKind
	}{
		{"long below ask is a limit", signal.Long, 1895, BuyLimit},
		{"long above ask is a stop", signal.Long, 1905, BuyStop},
		{"long at ask is a stop", signal.Long, 1900.0, BuyStop},
		{"short above bid is a limit", signal.Short, 1905, SellLimit},
		{"short below bid is a stop", signal.Short, 1895, SellStop},
		{"short at bid is a stop", signal.Short, 1899.5, SellStop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.side, tc.entry, tick))
		})
	}
}

func TestOrderKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy_limit", BuyLimit.String())
	assert.Equal(t, "buy_stop", BuyStop.String())
	assert.Equal(t, "sell_limit", SellLimit.String())
	assert.Equal(t, "sell_stop", SellStop.String())
}

func TestRejectedError(t *testing.T) {
	t.Parallel()

	err := &RejectedError{Code: 10016, Reason: "invalid stops"}
	assert.Contains(t, err.Error(), "invalid stops")
	assert.Contains(t, err.Error(), "10016")
}
