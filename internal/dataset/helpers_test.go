package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

// makeCategory は <root>/<category>/{train/good,test/good,test/<defect>} を作る
func makeCategory(t *testing.T, root, category string, trainGood, testGood int, defects map[string]int) {
	t.Helper()
	for i := 0; i < trainGood; i++ {
		touch(t, filepath.Join(root, category, "train", "good"), fmt.Sprintf("%03d.png", i))
	}
	for i := 0; i < testGood; i++ {
		touch(t, filepath.Join(root, category, "test", "good"), fmt.Sprintf("%03d.png", i))
	}
	for defect, n := range defects {
		for i := 0; i < n; i++ {
			touch(t, filepath.Join(root, category, "test", defect), fmt.Sprintf("%03d.png", i))
		}
	}
}

func makeImages(n int) []Image {
	images := make([]Image, n)
	for i := range images {
		images[i] = Image{Path: fmt.Sprintf("/src/cat/test/crack/%03d.png", i), Category: "cat", Label: "crack"}
	}
	return images
}

func pathSet(parts ...[]Image) map[string]int {
	set := map[string]int{}
	for _, part := range parts {
		for _, img := range part {
			set[img.Path]++
		}
	}
	return set
}
