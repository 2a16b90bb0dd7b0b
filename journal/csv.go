package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	orders  *csv.Writer
	updates *csv.Writer
	of, uf  *os.File
}

func NewCSV(ordersPath, updatesPath string) (*CSVJournal, error) {
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}
	uf, err := os.Create(updatesPath)
	if err != nil {
		of.Close()
		return nil, err
	}

	ow := csv.NewWriter(of)
	uw := csv.NewWriter(uf)

	writeHeaders := func() error {
		if err := ow.Write([]string{"id", "ticket", "symbol", "side", "kind", "volume", "entry_price", "stop_loss", "take_profit", "expiration", "created_at"}); err != nil {
			return err
		}
		if err := uw.Write([]string{"id", "symbol", "new_stop_loss", "modified", "failed", "time"}); err != nil {
			return err
		}
		ow.Flush()
		if err := ow.Error(); err != nil {
			return err
		}
		uw.Flush()
		return uw.Error()
	}
	if err := writeHeaders(); err != nil {
		of.Close()
		uf.Close()
		return nil, err
	}

	return &CSVJournal{ow, uw, of, uf}, nil
}

func (j *CSVJournal) RecordOrder(r OrderRecord) error {
	err := j.orders.Write([]string{
		r.ID,
		strconv.FormatInt(r.Ticket, 10),
		r.Symbol,
		r.Side,
		r.Kind,
		f(r.Volume),
		f(r.EntryPrice),
		f(r.StopLoss),
		f(r.TakeProfit),
		r.Expiration.Format(time.RFC3339),
		r.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) RecordSLUpdate(r SLUpdateRecord) error {
	err := j.updates.Write([]string{
		r.ID,
		r.Symbol,
		f(r.NewStopLoss),
		strconv.Itoa(r.Modified),
		strconv.Itoa(r.Failed),
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.updates.Flush()
	return j.updates.Error()
}

func (j *CSVJournal) Close() error {
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}
	j.updates.Flush()
	if err := j.updates.Error(); err != nil {
		return err
	}
	if err := j.of.Close(); err != nil {
		return err
	}
	return j.uf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
