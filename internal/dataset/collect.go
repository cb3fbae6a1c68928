package dataset

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"defect-dataset-splitter/internal/constants"
	"defect-dataset-splitter/internal/utils"
)

// Source はソースデータセットの場所と対象
type Source struct {
	Root       string
	Categories []string
	Ext        string
}

// GoodImages は good 画像の収集結果
type GoodImages struct {
	Train []Image // 各カテゴリの train/good
	Test  []Image // 各カテゴリの test/good
}

// CollectGood は全カテゴリの train/good と test/good から画像を収集する。
// 存在しないディレクトリは警告を出して0件として扱う。
func CollectGood(src Source, logger *log.Entry) (*GoodImages, error) {
	logger.Infof("good 画像を収集中... (%dカテゴリ)", len(src.Categories))

	good := &GoodImages{}
	for _, category := range src.Categories {
		categoryDir := filepath.Join(src.Root, category)
		trainGoodDir := filepath.Join(categoryDir, constants.SourceTrainDir, constants.SourceGoodDir)
		testGoodDir := filepath.Join(categoryDir, constants.SourceTestDir, constants.SourceGoodDir)

		train, err := collectDir(trainGoodDir, category, constants.SourceGoodDir, src.Ext)
		if err != nil {
			return nil, err
		}
		if train == nil {
			logger.Warnf("%s %s。カテゴリ '%s' の good 教師画像をスキップします", trainGoodDir, skipReason(trainGoodDir), category)
		}
		good.Train = append(good.Train, train...)

		test, err := collectDir(testGoodDir, category, constants.SourceGoodDir, src.Ext)
		if err != nil {
			return nil, err
		}
		if test == nil {
			logger.Warnf("%s %s。カテゴリ '%s' の good テスト画像をスキップします", testGoodDir, skipReason(testGoodDir), category)
		}
		good.Test = append(good.Test, test...)

		logger.Debugf("  カテゴリ '%s': train/good %d件, test/good %d件", category, len(train), len(test))
	}

	logger.Infof("good 教師画像の合計: %d件", len(good.Train))
	logger.Infof("good テスト画像の合計: %d件", len(good.Test))
	return good, nil
}

// CollectDefective は全カテゴリの test 以下の good 以外のフォルダから画像を収集し、1つのリストにまとめる
func CollectDefective(src Source, logger *log.Entry) ([]Image, error) {
	logger.Infof("defective 画像を収集中... (%dカテゴリ)", len(src.Categories))

	var defective []Image
	for _, category := range src.Categories {
		testRoot := filepath.Join(src.Root, category, constants.SourceTestDir)
		if !utils.IsDir(testRoot) {
			logger.Warnf("%s %s。カテゴリ '%s' の defective 画像をスキップします", testRoot, skipReason(testRoot), category)
			continue
		}

		defectDirs, err := utils.GetEntryPaths(testRoot)
		if err != nil {
			return nil, fmt.Errorf("欠陥種別フォルダの取得に失敗 %s: %w", testRoot, err)
		}

		for _, defectDir := range defectDirs {
			defectType := filepath.Base(defectDir)
			if defectType == constants.SourceGoodDir {
				continue
			}
			if !utils.IsDir(defectDir) {
				logger.Warnf("%s はディレクトリではありません。スキップします", defectDir)
				continue
			}

			images, err := collectDir(defectDir, category, defectType, src.Ext)
			if err != nil {
				return nil, err
			}
			logger.Debugf("  カテゴリ '%s' / '%s': %d件", category, defectType, len(images))
			defective = append(defective, images...)
		}
	}

	logger.Infof("全カテゴリの defective 画像: %d件", len(defective))
	return defective, nil
}

// collectDir は dir 直下の画像を収集する。dir がディレクトリでない場合は nil を返す。
func collectDir(dir, category, label, ext string) ([]Image, error) {
	if !utils.IsDir(dir) {
		return nil, nil
	}
	files, err := utils.GetImageFiles(dir, ext)
	if err != nil {
		return nil, fmt.Errorf("ファイル一覧の取得に失敗 %s: %w", dir, err)
	}
	images := make([]Image, 0, len(files))
	for _, file := range files {
		images = append(images, Image{Path: file, Category: category, Label: label})
	}
	return images, nil
}

// skipReason はディレクトリとして読めないパスの警告文を返す
func skipReason(path string) string {
	if utils.Exists(path) {
		return "はディレクトリではありません"
	}
	return "が見つかりません"
}
