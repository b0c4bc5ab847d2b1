package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ledger/internal/core"
)

var csvHeader = []string{"id", "date", "amount", "category", "description", "notes", "created_at"}

type csvEncoder struct{}

// Encode writes one header row and one row per transaction. Amounts are
// signed with two decimals.
func (csvEncoder) Encode(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tx := range txs {
		rec := []string{
			tx.ID,
			tx.Date.String(),
			tx.Amount.String(),
			tx.Category,
			tx.Description,
			tx.Notes,
			tx.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by the CSV encoder into field sets ready for
// Store.AddTransaction. Only the date, amount and category columns are
// required; ids and creation times are ignored since the store assigns
// fresh ones.
func ReadCSV(r io.Reader) ([]core.TransactionFields, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "amount", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	get := func(rec []string, name string) *string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return nil
		}
		return core.Ptr(rec[i])
	}

	var out []core.TransactionFields
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		f := core.TransactionFields{
			Date:     get(rec, "date"),
			Amount:   get(rec, "amount"),
			Category: get(rec, "category"),
		}
		if f.Date == nil || f.Amount == nil || f.Category == nil {
			return nil, fmt.Errorf("line %d: expected at least %d columns", line, len(col))
		}
		if d := get(rec, "description"); d != nil && *d != "" {
			f.Description = d
		}
		if n := get(rec, "notes"); n != nil && *n != "" {
			f.Notes = n
		}
		out = append(out, f)
	}
	return out, nil
}
