package report

import (
	"defect-dataset-splitter/internal/dataset"
)

// Record は1ファイル分のコピー記録
type Record struct {
	Split       dataset.Split
	Class       dataset.Class
	Category    string
	Label       string
	Source      string
	Destination string
}
