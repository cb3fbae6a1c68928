package processor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"defect-dataset-splitter/internal/config"
	"defect-dataset-splitter/internal/constants"
	"defect-dataset-splitter/internal/dataset"
	"defect-dataset-splitter/internal/report"
)

// Result は1回の実行結果
type Result struct {
	RunID       string
	Assignment  *dataset.Assignment
	Summary     *report.Summary
	Records     []report.Record
	ArchivePath string
}

// Run はデータセットの再構成を最初から最後まで1回実行する。
// コピーに失敗した場合はその時点で中断し、出力先は途中までの状態で残る。
func Run(cfg *config.Config, logger *log.Entry, out io.Writer) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Assignment: &dataset.Assignment{}}
	logger = logger.WithField("run_id", res.RunID)

	logger.Infof("データセット分割を開始します...")
	logger.Infof("ソース: %s", cfg.SourceDir)
	logger.Infof("出力先: %s", cfg.DestDir)
	logger.Infof("カテゴリ数: %d", len(cfg.Categories))
	logger.Infof("good 検証データ比率: %.2f%%", cfg.GoodValRatio*100)
	logger.Infof("defective 比率: train %.2f%%, val %.2f%%, test %.2f%%",
		cfg.DefectiveTrainRatio*100, cfg.DefectiveValRatio*100, cfg.DefectiveTestRatio()*100)
	logger.Infof("乱数シード: %d", cfg.Seed)

	layout := dataset.NewLayout(cfg.DestDir)
	if err := layout.Ensure(logger); err != nil {
		return res, err
	}

	src := dataset.Source{Root: cfg.SourceDir, Categories: cfg.Categories, Ext: cfg.ImageExt}
	copier := &Copier{PrefixNames: cfg.PrefixNames, ShowProgress: cfg.ShowProgress, Logger: logger}

	// good
	var good *dataset.GoodImages
	err := collectWithSpinner(cfg.ShowProgress, " good 画像を収集中", logger, func(l *log.Entry) (err error) {
		good, err = dataset.CollectGood(src, l)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Assignment.Good = dataset.SplitGood(good, cfg.GoodValRatio, cfg.Seed)
	if err := copyPartition(copier, layout, dataset.ClassGood, res); err != nil {
		return res, err
	}

	// defective
	var defective []dataset.Image
	err = collectWithSpinner(cfg.ShowProgress, " defective 画像を収集中", logger, func(l *log.Entry) (err error) {
		defective, err = dataset.CollectDefective(src, l)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Assignment.Defective = dataset.SplitDefective(defective, cfg.DefectiveTestRatio(), cfg.DefectiveValSplitRatio(), cfg.Seed)
	if err := copyPartition(copier, layout, dataset.ClassDefective, res); err != nil {
		return res, err
	}

	logger.Infof("データセットの再構成が完了しました: %s", cfg.DestDir)

	res.Summary, err = report.Summarize(res.RunID, layout, res.Assignment)
	if err != nil {
		return res, err
	}
	for _, m := range res.Summary.Mismatches() {
		logger.Warnf("%s: コピー件数 %d件に対してファイル数が %d件です (同名ファイルの上書きの可能性があります)", m.Label, m.Expected, m.Actual)
	}
	if err := report.Render(out, res.Summary, cfg.OutputMode); err != nil {
		return res, fmt.Errorf("集計結果の出力に失敗: %w", err)
	}

	if cfg.WriteManifest {
		if err := writeManifest(cfg, res); err != nil {
			return res, err
		}
		logger.Infof("manifestを出力しました: %s", filepath.Join(cfg.DestDir, constants.ManifestFileName))
	}

	// tarファイル作成オプションが有効な場合
	if cfg.TarOutput {
		tarPath := ArchiveName(cfg.DestDir, cfg.GzipTar)
		logger.Infof("tarファイルの作成を開始します: %s", tarPath)
		if err := CreateTarArchive(cfg.DestDir, tarPath, cfg.GzipTar); err != nil {
			logger.Warnf("tarファイルの作成に失敗: %v", err)
		} else {
			res.ArchivePath = tarPath
			logger.Infof("tarファイルが作成されました: %s", tarPath)
		}
	}

	return res, nil
}

func copyPartition(copier *Copier, layout *dataset.Layout, class dataset.Class, res *Result) error {
	for _, split := range dataset.Splits {
		target := dataset.Target{Split: split, Class: class, Dir: layout.Dir(split, class)}
		records, err := copier.CopyImages(res.Assignment.Images(split, class), target)
		res.Records = append(res.Records, records...)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeManifest は manifest.csv と dataset.yaml を出力先ルートに書き出す
func writeManifest(cfg *config.Config, res *Result) error {
	if err := report.WriteManifest(filepath.Join(cfg.DestDir, constants.ManifestFileName), res.RunID, res.Records); err != nil {
		return err
	}
	descriptor := report.NewDescriptor(res.Summary, cfg.SourceDir, cfg.Seed, cfg.Categories, report.DescriptorRatios{
		GoodVal:        cfg.GoodValRatio,
		DefectiveTrain: cfg.DefectiveTrainRatio,
		DefectiveVal:   cfg.DefectiveValRatio,
		DefectiveTest:  cfg.DefectiveTestRatio(),
	})
	return report.WriteDescriptor(filepath.Join(cfg.DestDir, constants.DescriptorFileName), descriptor)
}

// collectWithSpinner は spinner を表示しながら collect を実行する。
// 表示中に出たログは保留し、spinner を止めてから元の出力先にまとめて書き出す。
func collectWithSpinner(enabled bool, suffix string, logger *log.Entry, collect func(*log.Entry) error) error {
	if !enabled {
		return collect(logger)
	}

	var held bytes.Buffer
	buffered := log.New()
	buffered.SetOutput(&held)
	buffered.SetFormatter(logger.Logger.Formatter)
	buffered.SetLevel(logger.Logger.GetLevel())
	buffered.ReplaceHooks(logger.Logger.Hooks)

	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithHiddenCursor(true),
		spinner.WithWriter(os.Stderr),
	)
	s.Suffix = suffix
	s.Start()
	err := collect(buffered.WithFields(logger.Data))
	s.Stop()

	if _, werr := logger.Logger.Out.Write(held.Bytes()); werr != nil && err == nil {
		err = fmt.Errorf("ログの出力に失敗: %w", werr)
	}
	return err
}
