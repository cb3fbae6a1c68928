package processor

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defect-dataset-splitter/internal/dataset"
	"defect-dataset-splitter/internal/report"
)

var bottleDefects = []string{"broken_large", "broken_small", "contamination", "crack"}

func newTestLogger() (*log.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return log.NewEntry(logger), hook
}

func warnCount(hook *test.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			n++
		}
	}
	return n
}

func TestRun_Scenario(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)

	logger, hook := newTestLogger()
	var out bytes.Buffer
	res, err := Run(testConfig(src, dest, "bottle"), logger, &out)
	require.NoError(t, err)

	layout := dataset.NewLayout(dest)
	assert.Equal(t, 8, countFiles(t, layout.Dir(dataset.SplitTrain, dataset.ClassGood)))
	assert.Equal(t, 2, countFiles(t, layout.Dir(dataset.SplitVal, dataset.ClassGood)))
	assert.Equal(t, 5, countFiles(t, layout.Dir(dataset.SplitTest, dataset.ClassGood)))
	assert.Equal(t, 14, countFiles(t, layout.Dir(dataset.SplitTrain, dataset.ClassDefective)))
	assert.Equal(t, 3, countFiles(t, layout.Dir(dataset.SplitVal, dataset.ClassDefective)))
	assert.Equal(t, 3, countFiles(t, layout.Dir(dataset.SplitTest, dataset.ClassDefective)))

	assert.Empty(t, res.Summary.Mismatches())
	assert.Equal(t, 35, res.Summary.TotalFiles())
	assert.Len(t, res.Records, 35)
	assert.Zero(t, warnCount(hook))

	assert.Contains(t, out.String(), "Train Good: 8")
	assert.Contains(t, out.String(), "Test Defective: 3")
}

func TestRun_SourceSetsArePreserved(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)
	makeCategory(t, src, "hazelnut", 7, 3, []string{"hole", "print"}, 4)

	logger, _ := newTestLogger()
	cfg := testConfig(src, dest, "bottle", "hazelnut")
	cfg.PrefixNames = true
	res, err := Run(cfg, logger, &bytes.Buffer{})
	require.NoError(t, err)

	good := res.Assignment.Good
	defective := res.Assignment.Defective
	assert.Equal(t, 25, good.Total())
	assert.Equal(t, 28, defective.Total())

	seen := map[string]int{}
	for _, part := range [][]dataset.Image{good.Train, good.Val, good.Test, defective.Train, defective.Val, defective.Test} {
		for _, img := range part {
			seen[img.Path]++
		}
	}
	assert.Len(t, seen, 53)
	for path, n := range seen {
		assert.Equal(t, 1, n, path)
	}
	assert.Empty(t, res.Summary.Mismatches())
}

func TestRun_Deterministic(t *testing.T) {
	src := t.TempDir()
	makeCategory(t, src, "bottle", 40, 5, bottleDefects, 10)

	logger, _ := newTestLogger()
	res1, err := Run(testConfig(src, t.TempDir(), "bottle"), logger, &bytes.Buffer{})
	require.NoError(t, err)
	res2, err := Run(testConfig(src, t.TempDir(), "bottle"), logger, &bytes.Buffer{})
	require.NoError(t, err)

	for _, split := range dataset.Splits {
		for _, class := range dataset.Classes {
			assert.Equal(t,
				dataset.Paths(res1.Assignment.Images(split, class)),
				dataset.Paths(res2.Assignment.Images(split, class)),
				"%s/%s", split, class)
		}
	}
	assert.NotEqual(t, res1.RunID, res2.RunID)
}

func TestRun_MissingCategoryIsWarned(t *testing.T) {
	src := t.TempDir()
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)

	logger, hook := newTestLogger()
	res, err := Run(testConfig(src, t.TempDir(), "bottle", "zipper"), logger, &bytes.Buffer{})
	require.NoError(t, err)

	// train/good, test/good, test の3つ
	assert.Equal(t, 3, warnCount(hook))
	assert.Equal(t, 15, res.Assignment.Good.Total())
	assert.Equal(t, 20, res.Assignment.Defective.Total())
}

func TestRun_RerunOverwritesInPlace(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)

	logger, _ := newTestLogger()
	first, err := Run(testConfig(src, dest, "bottle"), logger, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := Run(testConfig(src, dest, "bottle"), logger, &bytes.Buffer{})
	require.NoError(t, err)

	// 同じシードなら同じファイル名に上書きされるので件数は変わらない
	assert.Len(t, second.Records, len(first.Records))
	assert.Equal(t, first.Summary.TotalFiles(), second.Summary.TotalFiles())
}

func TestRun_NameCollisionsAreReported(t *testing.T) {
	src := t.TempDir()
	makeCategory(t, src, "bottle", 0, 4, nil, 0)
	makeCategory(t, src, "screw", 0, 4, nil, 0)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bottle", "train", "good"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "screw", "train", "good"), 0o755))

	logger, hook := newTestLogger()
	res, err := Run(testConfig(src, t.TempDir(), "bottle", "screw"), logger, &bytes.Buffer{})
	require.NoError(t, err)

	mismatches := res.Summary.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, dataset.SplitTest, mismatches[0].Split)
	assert.Equal(t, 8, mismatches[0].Expected)
	assert.Equal(t, 4, mismatches[0].Actual)
	assert.Equal(t, 1, warnCount(hook))

	logger, _ = newTestLogger()
	cfg := testConfig(src, t.TempDir(), "bottle", "screw")
	cfg.PrefixNames = true
	res, err = Run(cfg, logger, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, res.Summary.Mismatches())
	assert.Equal(t, 8, res.Summary.Count(dataset.SplitTest, dataset.ClassGood))
}

func TestRun_CopyFailureAborts(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)
	// リンク先の無いシンボリックリンクはコピーできない
	require.NoError(t, os.Symlink(filepath.Join(src, "missing.png"), filepath.Join(src, "bottle", "train", "good", "broken.png")))

	logger, _ := newTestLogger()
	res, err := Run(testConfig(src, dest, "bottle"), logger, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")

	// defective はコピーされずに終わる
	assert.Nil(t, res.Summary)
	assert.Equal(t, 0, countFiles(t, filepath.Join(dest, "train", "defective_product")))
	assert.NoFileExists(t, filepath.Join(dest, "manifest.csv"))
}

func TestRun_WritesManifestAndDescriptor(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	makeCategory(t, src, "bottle", 10, 5, bottleDefects, 5)

	logger, _ := newTestLogger()
	cfg := testConfig(src, dest, "bottle")
	res, err := Run(cfg, logger, &bytes.Buffer{})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dest, "manifest.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 36)
	assert.Equal(t, "run_id", rows[0][0])
	for _, row := range rows[1:] {
		assert.Equal(t, res.RunID, row[0])
		assert.FileExists(t, row[6])
	}

	d, err := report.ReadDescriptor(filepath.Join(dest, "dataset.yaml"))
	require.NoError(t, err)
	assert.Equal(t, res.RunID, d.RunID)
	assert.Equal(t, int64(42), d.Seed)
	assert.Equal(t, []string{"bottle"}, d.Categories)
	require.Len(t, d.Splits, 3)
	assert.Equal(t, 8, d.Splits[0].Counts["good_product"])
	assert.Equal(t, 14, d.Splits[0].Counts["defective_product"])
}

func TestRun_ManifestDisabled(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	makeCategory(t, src, "bottle", 2, 1, nil, 0)

	logger, _ := newTestLogger()
	cfg := testConfig(src, dest, "bottle")
	cfg.WriteManifest = false
	_, err := Run(cfg, logger, &bytes.Buffer{})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dest, "manifest.csv"))
	assert.NoFileExists(t, filepath.Join(dest, "dataset.yaml"))
}

func TestCollectWithSpinner_HoldsLogsUntilStopped(t *testing.T) {
	var out bytes.Buffer
	base := log.New()
	base.SetOutput(&out)
	base.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	hook := test.NewLocal(base)
	logger := base.WithField("run_id", "r1")

	err := collectWithSpinner(true, " collecting", logger, func(l *log.Entry) error {
		l.Warn("train/good が見つかりません")
		assert.Empty(t, out.String())
		return nil
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "train/good が見つかりません")
	assert.Contains(t, out.String(), "run_id=r1")
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestCollectWithSpinner_Disabled(t *testing.T) {
	var out bytes.Buffer
	base := log.New()
	base.SetOutput(&out)
	logger := log.NewEntry(base)

	err := collectWithSpinner(false, "", logger, func(l *log.Entry) error {
		assert.Same(t, logger, l)
		l.Info("収集中")
		assert.Contains(t, out.String(), "収集中")
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
