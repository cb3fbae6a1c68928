package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"

	"defect-dataset-splitter/internal/config"
	"defect-dataset-splitter/internal/constants"
	"defect-dataset-splitter/internal/logger"
	"defect-dataset-splitter/internal/processor"
)

// RootCommand は CLI のルートコマンドを組み立てる
func RootCommand() *cobra.Command {
	v := viper.New()
	// variable used to assign the output mode flag
	outputMode := constants.SummaryOutputModeTable

	rootCmd := &cobra.Command{
		Use:   constants.AppName + " [flags] [SOURCE [DEST]]",
		Short: "Reorganize an anomaly-detection image dataset into a binary train/val/test layout",
		Long: `Reorganize an anomaly-detection image dataset into a binary train/val/test layout.

Images under <source>/<category>/train/good and <source>/<category>/test/good become
the good_product class; every other folder under <source>/<category>/test becomes the
defective_product class. Each class is split with a fixed seed and copied to
<dest>/{train,val,test}/{good_product,defective_product}.

Examples:

  # Split the whole MVTec AD dataset with the default ratios
  defect-dataset-splitter ~/Downloads/mvtec_anomaly_detection ./my_defect_dataset

  # Only two categories, prefixed file names, gzipped tarball of the result
  defect-dataset-splitter --source ./mvtec --dest ./out --categories bottle,screw --prefix-names --tar --gzip`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRootCmd(cmd, args, v, outputMode)
		},
	}

	defaults := config.NewDefaultConfig()
	flags := rootCmd.Flags()
	flags.String(constants.ArgSource, "", "Source dataset root containing one directory per category")
	flags.String(constants.ArgDest, "", "Output root for the train/val/test layout")
	flags.StringSlice(constants.ArgCategories, defaults.Categories, "Categories to include")
	flags.String(constants.ArgExt, defaults.ImageExt, "File name suffix of images to collect")
	flags.Float64(constants.ArgGoodValRatio, defaults.GoodValRatio, "Fraction of good training images held out for validation")
	flags.Float64(constants.ArgDefectiveTrainRatio, defaults.DefectiveTrainRatio, "Fraction of defective images used for training")
	flags.Float64(constants.ArgDefectiveValRatio, defaults.DefectiveValRatio, "Fraction of defective images used for validation")
	flags.Int64(constants.ArgSeed, defaults.Seed, "Random seed for the splits")
	flags.Bool(constants.ArgPrefixNames, false, "Prefix copied file names with <category>_<label>_ to avoid collisions")
	flags.Bool(constants.ArgManifest, defaults.WriteManifest, "Write manifest.csv and dataset.yaml to the output root")
	flags.Bool(constants.ArgTar, false, "Archive the output tree into <dest>.tar in the working directory")
	flags.Bool(constants.ArgGzip, false, "Gzip the tar archive (<dest>.tar.gz)")
	flags.Bool(constants.ArgProgress, isatty.IsTerminal(os.Stderr.Fd()), "Show progress bars and spinners")
	flags.String(constants.ArgLogLevel, defaults.LogLevel, "Log level; one of: debug, info, warn, error")
	flags.String(constants.ArgConfig, "", "YAML config file with the same keys as the flags")
	flags.String(constants.ArgEnvFile, "", "Path to a .env file (defaults to ./.env when present)")
	flags.Var(enumflag.New(&outputMode, constants.ArgOutput, constants.SummaryOutputModeIds, enumflag.EnumCaseInsensitive),
		constants.ArgOutput,
		fmt.Sprintf("Summary output format; one of: %s", strings.Join(constants.FlagValues(constants.SummaryOutputModeIds), ", ")))

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, args []string, v *viper.Viper, outputMode constants.SummaryOutputMode) error {
	flags := cmd.Flags()

	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	config.InitEnv(v)
	// .env の値も DDS_CONFIG などとして参照できるように先に読み込む
	if err := config.LoadEnvFile(v.GetString(constants.ArgEnvFile)); err != nil {
		return err
	}
	if err := config.ReadConfigFile(v, v.GetString(constants.ArgConfig)); err != nil {
		return err
	}

	// 位置引数もサポート
	if len(args) >= 1 && !v.IsSet(constants.ArgSource) {
		v.Set(constants.ArgSource, args[0])
	}
	if len(args) >= 2 && !v.IsSet(constants.ArgDest) {
		v.Set(constants.ArgDest, args[1])
	}

	cfg := config.FromViper(v)
	cfg.OutputMode = outputMode
	if !flags.Changed(constants.ArgOutput) && v.IsSet(constants.ArgOutput) {
		mode, err := constants.ParseSummaryOutputMode(v.GetString(constants.ArgOutput))
		if err != nil {
			return fmt.Errorf("設定エラー: %w", err)
		}
		cfg.OutputMode = mode
	}
	// 端末かどうかで決まるフラグのデフォルト値は viper から見えない
	if !v.IsSet(constants.ArgProgress) {
		cfg.ShowProgress, _ = flags.GetBool(constants.ArgProgress)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定エラー: %w", err)
	}
	if err := cfg.CheckSourceDir(); err != nil {
		return err
	}

	_, err := processor.Run(cfg, log.NewEntry(log.StandardLogger()), cmd.OutOrStdout())
	return err
}

// Execute はルートコマンドを実行し、終了コードを返す
func Execute() int {
	if err := RootCommand().Execute(); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}
