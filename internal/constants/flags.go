package constants

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thediveo/enumflag/v2"
)

// フラグ名
const (
	ArgSource              = "source"
	ArgDest                = "dest"
	ArgCategories          = "categories"
	ArgExt                 = "ext"
	ArgGoodValRatio        = "good-val-ratio"
	ArgDefectiveTrainRatio = "defective-train-ratio"
	ArgDefectiveValRatio   = "defective-val-ratio"
	ArgSeed                = "seed"
	ArgPrefixNames         = "prefix-names"
	ArgManifest            = "manifest"
	ArgTar                 = "tar"
	ArgGzip                = "gzip"
	ArgOutput              = "output"
	ArgProgress            = "progress"
	ArgLogLevel            = "log-level"
	ArgConfig              = "config"
	ArgEnvFile             = "env-file"
)

type SummaryOutputMode enumflag.Flag

const (
	SummaryOutputModeTable SummaryOutputMode = iota
	SummaryOutputModeJson
	SummaryOutputModePlain
)

var SummaryOutputModeIds = map[SummaryOutputMode][]string{
	SummaryOutputModeTable: {"table"},
	SummaryOutputModeJson:  {"json"},
	SummaryOutputModePlain: {"plain"},
}

func (m SummaryOutputMode) String() string {
	if ids, ok := SummaryOutputModeIds[m]; ok {
		return ids[0]
	}
	return "unknown"
}

// ParseSummaryOutputMode は "table" などの名前を SummaryOutputMode に変換する。大文字小文字は区別しない。
func ParseSummaryOutputMode(name string) (SummaryOutputMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, ids := range SummaryOutputModeIds {
		for _, id := range ids {
			if id == name {
				return mode, nil
			}
		}
	}
	return SummaryOutputModeTable, fmt.Errorf("不明な出力形式です: %s (%s のいずれかを指定してください)",
		name, strings.Join(FlagValues(SummaryOutputModeIds), ", "))
}

// FlagValues はフラグのヘルプ表示用に値の一覧を返す
func FlagValues[T comparable](mappings map[T][]string) []string {
	var res = make([]string, 0, len(mappings))
	for _, v := range mappings {
		res = append(res, v[0])
	}
	sort.Strings(res)
	return res
}
