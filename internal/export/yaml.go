package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"ledger/internal/core"
)

type transactionYAML struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Amount      string `yaml:"amount"`
	Category    string `yaml:"category"`
	Description string `yaml:"description,omitempty"`
	Notes       string `yaml:"notes,omitempty"`
	CreatedAt   string `yaml:"created_at"`
}

type yamlEncoder struct{}

func (yamlEncoder) Encode(w io.Writer, txs []core.Transaction) error {
	rows := make([]transactionYAML, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, transactionYAML{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Amount:      tx.Amount.String(),
			Category:    tx.Category,
			Description: tx.Description,
			Notes:       tx.Notes,
			CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"transactions": rows}); err != nil {
		return err
	}
	return enc.Close()
}
