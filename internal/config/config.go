package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"defect-dataset-splitter/internal/constants"
)

// ErrInvalidRatio は比率設定の不整合を表す
var ErrInvalidRatio = errors.New("比率の設定が不正です")

// 浮動小数点の誤差を許容する幅 (0.7 + 0.15 + 0.15 など)
const ratioEpsilon = 1e-9

// Config は設定情報を保持
type Config struct {
	SourceDir  string   // ソースディレクトリ (カテゴリディレクトリの親)
	DestDir    string   // 出力先ディレクトリ
	Categories []string // 対象カテゴリ
	ImageExt   string   // 対象とする画像の拡張子

	GoodValRatio        float64 // good の train から val に回す比率
	DefectiveTrainRatio float64 // defective の教師データ比率
	DefectiveValRatio   float64 // defective の検証データ比率
	Seed                int64   // 分割用の乱数シード

	PrefixNames   bool // 出力ファイル名にカテゴリとラベルを付与
	WriteManifest bool // manifest.csv と dataset.yaml を出力
	TarOutput     bool // tar出力フラグ
	GzipTar       bool // tarをgzip圧縮

	OutputMode   constants.SummaryOutputMode // 集計結果の表示形式
	ShowProgress bool                        // 進捗表示
	LogLevel     string                      // ログレベル
}

// NewDefaultConfig はデフォルト設定を返す
func NewDefaultConfig() *Config {
	categories := make([]string, len(constants.DefaultCategories))
	copy(categories, constants.DefaultCategories)

	return &Config{
		Categories:          categories,
		ImageExt:            constants.DefaultImageExt,
		GoodValRatio:        constants.DefaultGoodValRatio,
		DefectiveTrainRatio: constants.DefaultDefectiveTrainRatio,
		DefectiveValRatio:   constants.DefaultDefectiveValRatio,
		Seed:                constants.DefaultSeed,
		WriteManifest:       true,
		OutputMode:          constants.SummaryOutputModeTable,
		LogLevel:            "info",
	}
}

// Validate は設定の妥当性をチェック
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("ソースディレクトリが指定されていません")
	}
	if c.DestDir == "" {
		return fmt.Errorf("出力先ディレクトリが指定されていません")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("カテゴリが1つも指定されていません")
	}
	for _, category := range c.Categories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("空のカテゴリ名は指定できません")
		}
	}
	if c.ImageExt == "" {
		return fmt.Errorf("画像の拡張子が指定されていません")
	}
	return c.validateRatios()
}

func (c *Config) validateRatios() error {
	for _, r := range []float64{c.GoodValRatio, c.DefectiveTrainRatio, c.DefectiveValRatio} {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: 比率に数値以外の値が指定されています (%v)", ErrInvalidRatio, r)
		}
	}
	if c.GoodValRatio < 0.0 || c.GoodValRatio >= 1.0 {
		return fmt.Errorf("%w: good の検証データ比率は0.0以上1.0未満である必要があります (%v)", ErrInvalidRatio, c.GoodValRatio)
	}
	if c.DefectiveTrainRatio <= 0.0 || c.DefectiveTrainRatio > 1.0 {
		return fmt.Errorf("%w: defective の教師データ比率は0.0より大きく1.0以下である必要があります (%v)", ErrInvalidRatio, c.DefectiveTrainRatio)
	}
	if c.DefectiveValRatio < 0.0 || c.DefectiveValRatio >= 1.0 {
		return fmt.Errorf("%w: defective の検証データ比率は0.0以上1.0未満である必要があります (%v)", ErrInvalidRatio, c.DefectiveValRatio)
	}
	if c.DefectiveTrainRatio+c.DefectiveValRatio > 1.0+ratioEpsilon {
		return fmt.Errorf("%w: defective の教師データ比率と検証データ比率の合計が1.0を超えています (%v + %v)",
			ErrInvalidRatio, c.DefectiveTrainRatio, c.DefectiveValRatio)
	}
	return nil
}

// CheckSourceDir はソースディレクトリの存在を確認
func (c *Config) CheckSourceDir() error {
	info, err := os.Stat(c.SourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("ソースディレクトリが存在しません: %s", c.SourceDir)
		}
		return fmt.Errorf("ソースディレクトリを確認できません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ソースパスがディレクトリではありません: %s", c.SourceDir)
	}
	return nil
}

// DefectiveTestRatio は defective のテストデータ比率を返す
func (c *Config) DefectiveTestRatio() float64 {
	r := 1.0 - c.DefectiveTrainRatio - c.DefectiveValRatio
	// 0.7 + 0.3 のような組み合わせで -1e-17 程度になるのを丸める
	if r < ratioEpsilon {
		return 0
	}
	return r
}

// DefectiveValSplitRatio は train+val から val を取り出す二段目の比率を返す
func (c *Config) DefectiveValSplitRatio() float64 {
	return c.DefectiveValRatio / (c.DefectiveTrainRatio + c.DefectiveValRatio)
}
