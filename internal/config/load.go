package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"defect-dataset-splitter/internal/constants"
)

// LoadEnvFile は .env ファイルを環境変数に読み込む。
// path が空の場合はカレントディレクトリの .env を探し、無ければ何もしない。
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf(".envファイルの読み込みに失敗 '%s': %w", path, err)
	}
	return nil
}

// InitEnv は DDS_ プレフィックスの環境変数を読むように v を設定する
func InitEnv(v *viper.Viper) {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadConfigFile は YAML などの設定ファイルを v に読み込む。path が空なら何もしない。
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗 '%s': %w", path, err)
	}
	return nil
}

// FromViper は viper の値から Config を組み立てる。
// 値が無いキーは NewDefaultConfig の値を使う。
func FromViper(v *viper.Viper) *Config {
	cfg := NewDefaultConfig()

	if v.IsSet(constants.ArgSource) {
		cfg.SourceDir = v.GetString(constants.ArgSource)
	}
	if v.IsSet(constants.ArgDest) {
		cfg.DestDir = v.GetString(constants.ArgDest)
	}
	if v.IsSet(constants.ArgCategories) {
		if categories := splitList(v.GetStringSlice(constants.ArgCategories)); len(categories) > 0 {
			cfg.Categories = categories
		}
	}
	if v.IsSet(constants.ArgExt) {
		cfg.ImageExt = v.GetString(constants.ArgExt)
	}
	if v.IsSet(constants.ArgGoodValRatio) {
		cfg.GoodValRatio = v.GetFloat64(constants.ArgGoodValRatio)
	}
	if v.IsSet(constants.ArgDefectiveTrainRatio) {
		cfg.DefectiveTrainRatio = v.GetFloat64(constants.ArgDefectiveTrainRatio)
	}
	if v.IsSet(constants.ArgDefectiveValRatio) {
		cfg.DefectiveValRatio = v.GetFloat64(constants.ArgDefectiveValRatio)
	}
	if v.IsSet(constants.ArgSeed) {
		cfg.Seed = v.GetInt64(constants.ArgSeed)
	}
	if v.IsSet(constants.ArgPrefixNames) {
		cfg.PrefixNames = v.GetBool(constants.ArgPrefixNames)
	}
	if v.IsSet(constants.ArgManifest) {
		cfg.WriteManifest = v.GetBool(constants.ArgManifest)
	}
	if v.IsSet(constants.ArgTar) {
		cfg.TarOutput = v.GetBool(constants.ArgTar)
	}
	if v.IsSet(constants.ArgGzip) {
		cfg.GzipTar = v.GetBool(constants.ArgGzip)
	}
	if v.IsSet(constants.ArgProgress) {
		cfg.ShowProgress = v.GetBool(constants.ArgProgress)
	}
	if v.IsSet(constants.ArgLogLevel) {
		cfg.LogLevel = v.GetString(constants.ArgLogLevel)
	}

	return cfg
}

// splitList は "a,b" のような環境変数由来の値も個別の要素に分解する
func splitList(values []string) []string {
	var res []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				res = append(res, item)
			}
		}
	}
	return res
}
