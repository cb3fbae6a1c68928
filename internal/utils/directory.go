package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Exists はパスが存在するかを返す
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir はパスがディレクトリかを返す (シンボリックリンクは辿る)
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetImageFiles は指定されたディレクトリ直下の画像ファイルを取得。
// ファイル名が ext で終わるものだけを対象とし、サブディレクトリは辿らない。
func GetImageFiles(dir, ext string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// GetEntryPaths は指定されたディレクトリ直下の全エントリのパスを取得
func GetEntryPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// DirStats はディレクトリ直下のエントリ数と通常ファイルの合計サイズ
type DirStats struct {
	Entries int
	Bytes   int64
}

// GetDirStats はディレクトリ直下のエントリを数える。
// ディレクトリが存在しない場合はゼロ値を返す。
func GetDirStats(dir string) (DirStats, error) {
	var stats DirStats
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, err
	}
	for _, entry := range entries {
		stats.Entries++
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return stats, err
		}
		stats.Bytes += info.Size()
	}
	return stats, nil
}
