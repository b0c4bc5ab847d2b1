package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"ledger/internal/core"
)

var created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "t1", Amount: core.Cents(-4250), Category: "Transportation", Date: core.NewDate(2024, 3, 1), Description: "Taxi, airport", CreatedAt: created},
		{ID: "t2", Amount: core.Cents(250000), Category: "Salary", Date: core.NewDate(2024, 3, 5), Notes: "March", CreatedAt: created},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCSVExport(t *testing.T) {
	var buf bytes.Buffer
	if err := Transactions(&buf, FormatCSV, sampleTransactions()); err != nil {
		t.Fatal(err)
	}
	want := "id,date,amount,category,description,notes,created_at\n" +
		"t1,2024-03-01,-42.50,Transportation,\"Taxi, airport\",,2024-03-01T09:30:00Z\n" +
		"t2,2024-03-05,2500.00,Salary,,March,2024-03-01T09:30:00Z\n"
	if buf.String() != want {
		t.Errorf("csv output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSVRoundTripIntoFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Transactions(&buf, FormatCSV, sampleTransactions()); err != nil {
		t.Fatal(err)
	}
	fields, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d rows, want 2", len(fields))
	}

	tx, err := fields[0].Build("new", created)
	if err != nil {
		t.Fatal(err)
	}
	if tx.Amount != core.Cents(-4250) || tx.Category != "Transportation" || tx.Description != "Taxi, airport" {
		t.Errorf("first row = %+v", tx)
	}
	if fields[1].Notes == nil || *fields[1].Notes != "March" || fields[1].Description != nil {
		t.Errorf("second row = %+v", fields[1])
	}
}

func TestReadCSVErrors(t *testing.T) {
	if got, err := ReadCSV(strings.NewReader("")); err != nil || got != nil {
		t.Errorf("empty input = %v, %v", got, err)
	}
	if _, err := ReadCSV(strings.NewReader("date,amount\n2024-01-01,1\n")); err == nil {
		t.Error("expected missing column error")
	}
	_, err := ReadCSV(strings.NewReader("date,amount,category\n2024-01-01,1,Food\n2024-01-02\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("short row error = %v", err)
	}
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := Transactions(&buf, FormatYAML, sampleTransactions()); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Transactions []transactionYAML `yaml:"transactions"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if len(doc.Transactions) != 2 {
		t.Fatalf("got %d transactions", len(doc.Transactions))
	}
	first := doc.Transactions[0]
	if first.Amount != "-42.50" || first.Date != "2024-03-01" || first.Notes != "" {
		t.Errorf("first = %+v", first)
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := Transactions(&buf, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"transactions": []`) {
		t.Errorf("empty export should have an empty array:\n%s", buf.String())
	}

	buf.Reset()
	if err := Transactions(&buf, FormatJSON, sampleTransactions()); err != nil {
		t.Fatal(err)
	}
	var doc core.TransactionsDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Transactions) != 2 || doc.Transactions[0] != sampleTransactions()[0] {
		t.Errorf("decoded = %+v", doc.Transactions)
	}
}

type fakeRestorer struct {
	got core.Snapshot
	err error
}

func (f *fakeRestorer) Restore(_ context.Context, snap core.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.got = snap
	return nil
}

func TestImportSnapshot(t *testing.T) {
	data, err := core.EncodeBackup(core.Snapshot{Transactions: sampleTransactions(), Budgets: []core.Budget{}}, created)
	if err != nil {
		t.Fatal(err)
	}

	r := &fakeRestorer{}
	snap, err := ImportSnapshot(context.Background(), bytes.NewReader(data), r)
	if err != nil {
		t.Fatalf("ImportSnapshot() error = %v", err)
	}
	if len(snap.Transactions) != 2 || len(r.got.Transactions) != 2 {
		t.Errorf("restored %+v", r.got)
	}
}

func TestImportSnapshotRejectsInvalid(t *testing.T) {
	r := &fakeRestorer{}
	if _, err := ImportSnapshot(context.Background(), strings.NewReader(`{"transactions":[{"id":""}]}`), r); err == nil {
		t.Error("expected validation error")
	}
	if r.got.Transactions != nil {
		t.Error("restore should not be called for an invalid document")
	}

	r.err = errors.New("disk full")
	if _, err := ImportSnapshot(context.Background(), strings.NewReader(`{}`), r); !errors.Is(err, r.err) {
		t.Errorf("error = %v, want restore error", err)
	}
}
