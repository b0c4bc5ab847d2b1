package export

import (
	"encoding/json"
	"io"

	"ledger/internal/core"
)

type jsonEncoder struct{}

func (jsonEncoder) Encode(w io.Writer, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(core.TransactionsDocument{Transactions: txs})
}
