package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"defect-dataset-splitter/internal/constants"
	"defect-dataset-splitter/internal/dataset"
	"defect-dataset-splitter/internal/utils"
)

// DirCount は出力先ディレクトリ1つ分の集計
type DirCount struct {
	Split    dataset.Split `json:"split"`
	Class    dataset.Class `json:"class"`
	Dir      string        `json:"dir"`
	Label    string        `json:"label"`
	Expected int           `json:"expected"`
	Actual   int           `json:"actual"`
	Bytes    int64         `json:"bytes"`
}

// Summary は実行後の出力先ディレクトリの状態
type Summary struct {
	RunID      string     `json:"run_id"`
	OutputRoot string     `json:"output_root"`
	Counts     []DirCount `json:"counts"`
}

// Summarize は6つの出力先ディレクトリを読み直してファイル数を数える。
// メモリ上の件数ではなく実際にディスク上にあるファイルを数える。
func Summarize(runID string, layout *dataset.Layout, assignment *dataset.Assignment) (*Summary, error) {
	summary := &Summary{RunID: runID, OutputRoot: layout.Root}
	for _, target := range layout.Targets() {
		stats, err := utils.GetDirStats(target.Dir)
		if err != nil {
			return nil, fmt.Errorf("ディレクトリの集計に失敗 %s: %w", target.Dir, err)
		}
		summary.Counts = append(summary.Counts, DirCount{
			Split:    target.Split,
			Class:    target.Class,
			Dir:      target.Dir,
			Label:    target.Label(),
			Expected: len(assignment.Images(target.Split, target.Class)),
			Actual:   stats.Entries,
			Bytes:    stats.Bytes,
		})
	}
	return summary, nil
}

// Mismatches は期待件数と実際のファイル数が異なるディレクトリを返す
func (s *Summary) Mismatches() []DirCount {
	var res []DirCount
	for _, c := range s.Counts {
		if c.Expected != c.Actual {
			res = append(res, c)
		}
	}
	return res
}

// Count は (分割, クラス) の実ファイル数を返す
func (s *Summary) Count(split dataset.Split, class dataset.Class) int {
	for _, c := range s.Counts {
		if c.Split == split && c.Class == class {
			return c.Actual
		}
	}
	return 0
}

// TotalFiles は全出力先の実ファイル数の合計
func (s *Summary) TotalFiles() int {
	total := 0
	for _, c := range s.Counts {
		total += c.Actual
	}
	return total
}

// TotalBytes は全出力先の合計サイズ
func (s *Summary) TotalBytes() int64 {
	var total int64
	for _, c := range s.Counts {
		total += c.Bytes
	}
	return total
}

// Render は集計結果を mode の形式で w に書き出す
func Render(w io.Writer, s *Summary, mode constants.SummaryOutputMode) error {
	switch mode {
	case constants.SummaryOutputModeJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case constants.SummaryOutputModePlain:
		return renderPlain(w, s)
	default:
		renderTable(w, s)
		return nil
	}
}

func renderPlain(w io.Writer, s *Summary) error {
	if _, err := fmt.Fprintln(w, "--- Final Counts ---"); err != nil {
		return err
	}
	for _, c := range s.Counts {
		if _, err := fmt.Fprintf(w, "%s: %d\n", c.Label, c.Actual); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Final Counts: %s", s.OutputRoot)
	t.AppendHeader(table.Row{"Directory", "Files", "Expected", "Size"})
	for _, c := range s.Counts {
		t.AppendRow(table.Row{
			c.Label,
			humanize.Comma(int64(c.Actual)),
			humanize.Comma(int64(c.Expected)),
			humanizeBytes(c.Bytes),
		})
	}
	t.AppendFooter(table.Row{"Total", humanize.Comma(int64(s.TotalFiles())), "", humanizeBytes(s.TotalBytes())})
	t.Render()
}

func humanizeBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
