package processor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"defect-dataset-splitter/internal/dataset"
	"defect-dataset-splitter/internal/report"
)

// copyFile は単一ファイルをコピー。同名のファイルがあれば上書きする。
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}

// Copier は画像を出力先ディレクトリへ順次コピーする
type Copier struct {
	PrefixNames  bool
	ShowProgress bool
	Logger       *log.Entry
}

// CopyImages は images を target.Dir へコピーし、コピーした記録を返す。
// 1件でも失敗した場合はその時点で中断してエラーを返す。
func (c *Copier) CopyImages(images []dataset.Image, target dataset.Target) ([]report.Record, error) {
	c.Logger.Infof("%d件の画像を %s にコピー中...", len(images), target.Dir)
	if len(images) == 0 {
		return nil, nil
	}

	var bar *progressbar.ProgressBar
	if c.ShowProgress {
		bar = progressbar.NewOptions(len(images),
			progressbar.OptionSetDescription(fmt.Sprintf("⏳ %s/%s", target.Split, target.Class)),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	records := make([]report.Record, 0, len(images))
	for _, img := range images {
		destPath := filepath.Join(target.Dir, img.DestName(c.PrefixNames))
		if err := copyFile(img.Path, destPath); err != nil {
			return records, fmt.Errorf("ファイルのコピーに失敗 %s -> %s: %w", img.Path, destPath, err)
		}
		records = append(records, report.Record{
			Split:       target.Split,
			Class:       target.Class,
			Category:    img.Category,
			Label:       img.Label,
			Source:      img.Path,
			Destination: destPath,
		})
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return records, nil
}
