package orders

import "errors"

var (
	// ErrMarketData means the venue could not supply a current bid/ask.
	ErrMarketData = errors.New("market data unavailable")

	// ErrTakeProfitCalc means tick metadata was unavailable, so the
	// target-profit TP distance could not be computed.
	ErrTakeProfitCalc = errors.New("take-profit calculation failed")

	// ErrNoTargets means a stop-loss update found zero open positions and
	// zero working orders to modify.
	ErrNoTargets = errors.New("no positions or working orders to update")
)
