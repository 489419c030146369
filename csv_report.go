package harness

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders one row per (reader, query index, qps) triple from
// r.Readers to w, using the duration-averaged QPSMap. This is the
// optional machine-readable report spec.md's CLI layer exposes behind
// an --output-csv flag; plain runs only log the grand average.
func WriteCSV(w io.Writer, r Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"reader", "query", "qps"}); err != nil {
		return err
	}
	for _, report := range r.Readers {
		for idx, qps := range report.QPS {
			row := []string{
				strconv.Itoa(report.Index),
				strconv.Itoa(idx),
				strconv.FormatFloat(qps, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}
