package signal

import (
	"regexp"
	"strconv"
)

const num = `([0-9]+\.?[0-9]*)`

// Ordered pattern tables. Each table is tried top to bottom and the first
// structural match wins; a match whose numeric group fails to parse is
// skipped, not fatal.

// immediatePatterns flag market-execution requests. This system only places
// pending orders, so these messages are ignored outright.
var immediatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(buy|sell)\s+(gold|xauusd)\s+now\b`),
	regexp.MustCompile(`(?i)\bgold\s+(buy|sell)\s+now\b`),
	regexp.MustCompile(`(?i)\bscalping\s+(buy|sell)\b`),
	regexp.MustCompile(`(?i)\blets?\s+scalping\b`),
}

// slUpdatePatterns match "move the stop" instructions. Checked before side
// detection: a message carrying both an SL move and a fresh setup is treated
// as an SL move only.
var slUpdatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)move\s+sl\s+(?:to|at)\s+` + num),
	regexp.MustCompile(`(?i)update\s+sl\s+(?:to|at)\s+` + num),
	regexp.MustCompile(`(?i)sl\s+(?:to|at)\s+` + num),
	regexp.MustCompile(`(?i)new\s+sl\s+(?:to|at|is)\s+` + num),
	regexp.MustCompile(`(?i)change\s+sl\s+(?:to|at)\s+` + num),
}

// sidePatterns hold the long vocabulary before the short one; the first
// table row that matches decides the side.
var sidePatterns = []struct {
	side Side
	re   *regexp.Regexp
}{
	{Long, regexp.MustCompile(`(?i)\b(buy|long|bullish|compra|largo)\b`)},
	{Short, regexp.MustCompile(`(?i)\b(sell|short|bearish|venta|corto)\b`)},
}

// Range patterns run before single-price patterns so "@1900-1920" is never
// misread as a lone entry at 1900.
var rangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)@\s*` + num + `\s*-\s*` + num),
	regexp.MustCompile(`(?i)gold\s*@\s*` + num + `\s*-\s*` + num),
}

var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)@\s*` + num),
	regexp.MustCompile(`(?i)(?:entry|enter)\s*:?\s*` + num),
	regexp.MustCompile(`(?i)gold\s*@\s*` + num),
}

var slPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:sl|stop\s*loss|stop)\s*:?\s*` + num),
	regexp.MustCompile(`(?i)s\.?l\.?\s*:?\s*` + num),
}

var tpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:tp|take\s*profit|target)\s*1?\s*:?\s*` + num),
	regexp.MustCompile(`(?i)tp1\s*:?\s*` + num),
}

// Extract parses a raw alert message. It never fails: unparseable input
// yields an empty Result.
func Extract(text string) Result {
	if text == "" {
		return Result{}
	}

	if isImmediateExecution(text) {
		return Result{}
	}

	if sl, ok := matchFirst(slUpdatePatterns, text); ok {
		return Result{SLUpdate: &SLUpdate{NewStopLoss: sl}}
	}

	side, ok := detectSide(text)
	if !ok {
		return Result{}
	}

	intent := &TradeIntent{Side: side, RawText: text}
	if !extractEntry(text, intent) {
		return Result{}
	}

	sl, ok := matchFirst(slPatterns, text)
	if !ok {
		return Result{}
	}
	intent.StopLoss = sl

	if tp, ok := matchFirst(tpPatterns, text); ok {
		intent.TakeProfitHint = tp
	}

	return Result{Intent: intent}
}

func isImmediateExecution(text string) bool {
	for _, re := range immediatePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func detectSide(text string) (Side, bool) {
	for _, row := range sidePatterns {
		if row.re.MatchString(text) {
			return row.side, true
		}
	}
	return Long, false
}

func extractEntry(text string, intent *TradeIntent) bool {
	for _, re := range rangePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA != nil || errB != nil {
			continue
		}
		intent.EntryRange = &EntryRange{Low: min(a, b), High: max(a, b)}
		return true
	}

	if price, ok := matchFirst(entryPatterns, text); ok {
		intent.EntryPrice = price
		return true
	}
	return false
}

// matchFirst walks an ordered pattern table and returns the first match
// whose captured token parses as a float.
func matchFirst(patterns []*regexp.Regexp, text string) (float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}
