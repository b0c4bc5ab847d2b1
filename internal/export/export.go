// Package export writes transactions in portable formats and reads them back.
package export

import (
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Encoder writes a list of transactions to w.
type Encoder interface {
	Encode(w io.Writer, txs []core.Transaction) error
}

var encoders = map[Format]Encoder{
	FormatCSV:  csvEncoder{},
	FormatYAML: yamlEncoder{},
	FormatJSON: jsonEncoder{},
}

// ParseFormat accepts csv, yaml, yml and json in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be csv, yaml or json", s)
	}
}

// EncoderFor returns the encoder for f.
func EncoderFor(f Format) (Encoder, error) {
	enc, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("no encoder for format %q", f)
	}
	return enc, nil
}

// Transactions encodes txs to w in format f.
func Transactions(w io.Writer, f Format, txs []core.Transaction) error {
	enc, err := EncoderFor(f)
	if err != nil {
		return err
	}
	return enc.Encode(w, txs)
}
