package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

var manifestHeader = []string{"run_id", "split", "class", "category", "label", "source", "destination"}

// WriteManifest は全コピー記録を CSV として path に書き出す
func WriteManifest(path, runID string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifestの作成に失敗: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		return fmt.Errorf("manifestの書き込みに失敗: %w", err)
	}
	for _, r := range records {
		row := []string{runID, string(r.Split), string(r.Class), r.Category, r.Label, r.Source, r.Destination}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("manifestの書き込みに失敗: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("manifestの書き込みに失敗: %w", err)
	}
	return f.Close()
}
