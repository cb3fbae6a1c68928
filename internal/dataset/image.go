package dataset

import (
	"path/filepath"
)

// Image は収集した画像ファイル
type Image struct {
	Path     string // ソースファイルのパス
	Category string // 製品カテゴリ
	Label    string // good または欠陥種別のフォルダ名
}

// DestName は出力先でのファイル名を返す。
// prefix が true の場合はカテゴリ名とラベルを前置して衝突を避ける。
func (i Image) DestName(prefix bool) string {
	base := filepath.Base(i.Path)
	if !prefix {
		return base
	}
	return i.Category + "_" + i.Label + "_" + base
}

// Paths は画像のパス一覧を返す
func Paths(images []Image) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}
