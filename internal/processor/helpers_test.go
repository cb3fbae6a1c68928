package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-dataset-splitter/internal/config"
	"defect-dataset-splitter/internal/constants"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(path), 0o644))
	return path
}

// makeCategory は good と欠陥種別ごとのフォルダを作る。
// 欠陥画像は <defect>_NNN.png という名前にしてクラス内で名前が重ならないようにする。
func makeCategory(t *testing.T, root, category string, trainGood, testGood int, defects []string, perDefect int) {
	t.Helper()
	for i := 0; i < trainGood; i++ {
		touch(t, filepath.Join(root, category, "train", "good"), fmt.Sprintf("%03d.png", i))
	}
	for i := 0; i < testGood; i++ {
		touch(t, filepath.Join(root, category, "test", "good"), fmt.Sprintf("%03d.png", i))
	}
	for _, defect := range defects {
		for i := 0; i < perDefect; i++ {
			touch(t, filepath.Join(root, category, "test", defect), fmt.Sprintf("%s_%03d.png", defect, i))
		}
	}
}

func testConfig(src, dest string, categories ...string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.SourceDir = src
	cfg.DestDir = dest
	cfg.Categories = categories
	cfg.OutputMode = constants.SummaryOutputModePlain
	return cfg
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}
