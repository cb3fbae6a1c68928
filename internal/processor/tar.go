package processor

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// ArchiveName はディレクトリ名から tar ファイル名を生成する (ディレクトリ名 + .tar[.gz])。
// "." や ".." は絶対パスに直してから名前を取り、ルートの場合は "dataset" を使う。
func ArchiveName(sourceDir string, compress bool) string {
	base := filepath.Base(filepath.Clean(sourceDir))
	if base == "." || base == ".." {
		if abs, err := filepath.Abs(sourceDir); err == nil {
			base = filepath.Base(abs)
		}
	}
	if base == "." || base == ".." || base == string(filepath.Separator) {
		base = "dataset"
	}
	name := base + ".tar"
	if compress {
		name += ".gz"
	}
	return name
}

// CreateTarArchive は sourceDir 以下を tarPath に書き出す。compress が true なら gzip 圧縮する。
func CreateTarArchive(sourceDir, tarPath string, compress bool) (err error) {
	tarFile, err := os.Create(tarPath)
	if err != nil {
		return fmt.Errorf("tarファイルの作成に失敗: %w", err)
	}
	defer func() {
		if cerr := tarFile.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var out io.Writer = tarFile
	if compress {
		gz := gzip.NewWriter(tarFile)
		defer func() {
			if cerr := gz.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		out = gz
	}

	tarWriter := tar.NewWriter(out)
	defer func() {
		if cerr := tarWriter.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	// 出力先ディレクトリ内に tar を作る場合に自分自身を含めない
	absTar, _ := filepath.Abs(tarPath)

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// ソースディレクトリ自体はスキップ
		if path == sourceDir {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absTar {
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		// ディレクトリの場合はファイル内容を書き込まない
		if d.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		return fmt.Errorf("ファイルのtar化に失敗: %w", err)
	}
	return nil
}
