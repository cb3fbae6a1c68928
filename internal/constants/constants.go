package constants

const (
	AppName = "defect-dataset-splitter"

	// 環境変数のプレフィックス (DDS_SOURCE など)
	EnvPrefix = "DDS"

	DefaultImageExt = ".png"
	DefaultSeed     = 42

	DefaultGoodValRatio        = 0.15
	DefaultDefectiveTrainRatio = 0.70
	DefaultDefectiveValRatio   = 0.15

	ManifestFileName   = "manifest.csv"
	DescriptorFileName = "dataset.yaml"
)

// ソースデータセット側のディレクトリ名
const (
	SourceTrainDir = "train"
	SourceTestDir  = "test"
	SourceGoodDir  = "good"
)

// DefaultCategories は MVTec AD の全カテゴリ
var DefaultCategories = []string{
	"transistor", "metal_nut", "zipper", "hazelnut", "cable", "leather",
	"bottle", "wood", "capsule", "pill", "tile", "carpet", "screw",
	"toothbrush", "grid",
}
