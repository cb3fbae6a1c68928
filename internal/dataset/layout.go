package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Split は出力先の分割種別
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
	SplitTest  Split = "test"
)

// Splits は出力順に並べた分割種別
var Splits = []Split{SplitTrain, SplitVal, SplitTest}

// Class は二値分類のクラス
type Class string

const (
	ClassGood      Class = "good_product"
	ClassDefective Class = "defective_product"
)

// Classes は出力順に並べたクラス
var Classes = []Class{ClassGood, ClassDefective}

// Target は (分割, クラス) の出力先ディレクトリ
type Target struct {
	Split Split
	Class Class
	Dir   string
}

// Label は "Train Good" のような表示名を返す
func (t Target) Label() string {
	split := map[Split]string{SplitTrain: "Train", SplitVal: "Validation", SplitTest: "Test"}[t.Split]
	class := map[Class]string{ClassGood: "Good", ClassDefective: "Defective"}[t.Class]
	return split + " " + class
}

// Layout は出力ディレクトリのツリー構造
type Layout struct {
	Root string
}

// NewLayout は root 以下のレイアウトを返す
func NewLayout(root string) *Layout {
	return &Layout{Root: root}
}

// Dir は (分割, クラス) の出力先ディレクトリを返す
func (l *Layout) Dir(split Split, class Class) string {
	return filepath.Join(l.Root, string(split), string(class))
}

// Targets は6つの出力先を train → val → test の順で返す
func (l *Layout) Targets() []Target {
	targets := make([]Target, 0, len(Splits)*len(Classes))
	for _, split := range Splits {
		for _, class := range Classes {
			targets = append(targets, Target{Split: split, Class: class, Dir: l.Dir(split, class)})
		}
	}
	return targets
}

// Ensure は6つの出力先ディレクトリを作成する。既に存在していてもエラーにしない。
func (l *Layout) Ensure(logger *log.Entry) error {
	for _, target := range l.Targets() {
		if err := os.MkdirAll(target.Dir, 0755); err != nil {
			return fmt.Errorf("ディレクトリの作成に失敗 %s: %w", target.Dir, err)
		}
		logger.Infof("ディレクトリを作成: %s", target.Dir)
	}
	return nil
}
