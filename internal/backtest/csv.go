package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"tick",
		"events",
		"legacy",
		"revised",
		"cum_legacy",
		"cum_revised",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		events := make([]string, len(r.Events))
		for i, e := range r.Events {
			events[i] = string(e)
		}
		row := []string{
			strconv.Itoa(r.Tick),
			strings.Join(events, "|"),
			fmtAmount(r.Legacy),
			fmtAmount(r.Revised),
			fmtAmount(r.CumLegacy),
			fmtAmount(r.CumRevised),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtAmount(x decimal.Decimal) string {
	return x.StringFixed(2)
}
