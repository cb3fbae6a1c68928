package dataset

import (
	"math"
	"math/rand"
)

// Partition は1クラス分の train/val/test への割り当て
type Partition struct {
	Train []Image
	Val   []Image
	Test  []Image
}

// Get は分割種別に対応する画像を返す
func (p *Partition) Get(split Split) []Image {
	switch split {
	case SplitTrain:
		return p.Train
	case SplitVal:
		return p.Val
	case SplitTest:
		return p.Test
	}
	return nil
}

// Total は3分割の合計件数
func (p *Partition) Total() int {
	return len(p.Train) + len(p.Val) + len(p.Test)
}

// Assignment は全画像の (分割, クラス) への割り当て。一度作成したら変更しない。
type Assignment struct {
	Good      Partition
	Defective Partition
}

// Images は (分割, クラス) に割り当てられた画像を返す
func (a *Assignment) Images(split Split, class Class) []Image {
	switch class {
	case ClassGood:
		return a.Good.Get(split)
	case ClassDefective:
		return a.Defective.Get(split)
	}
	return nil
}

// TrainTestSplit は images をシャッフルし、round(testSize × N) 件を held-out として切り出す。
// 同じ seed と入力順であれば常に同じ結果になる。入力スライスは変更しない。
func TrainTestSplit(images []Image, testSize float64, seed int64) (rest, heldOut []Image) {
	n := len(images)
	nTest := int(math.Round(testSize * float64(n)))
	if nTest < 0 {
		nTest = 0
	}
	if nTest > n {
		nTest = n
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	heldOut = make([]Image, 0, nTest)
	for _, idx := range perm[:nTest] {
		heldOut = append(heldOut, images[idx])
	}
	rest = make([]Image, 0, n-nTest)
	for _, idx := range perm[nTest:] {
		rest = append(rest, images[idx])
	}
	return rest, heldOut
}

// SplitGood は good の教師画像を train と val に分割する。test は分割せずそのまま使う。
func SplitGood(good *GoodImages, valRatio float64, seed int64) Partition {
	train, val := TrainTestSplit(good.Train, valRatio, seed)
	test := make([]Image, len(good.Test))
	copy(test, good.Test)
	return Partition{Train: train, Val: val, Test: test}
}

// SplitDefective は defective 画像を2段階で train/val/test に分割する。
// 1段目で testRatio を test として切り出し、2段目で残りから valSplitRatio を val とする。
func SplitDefective(images []Image, testRatio, valSplitRatio float64, seed int64) Partition {
	trainVal, test := TrainTestSplit(images, testRatio, seed)
	train, val := TrainTestSplit(trainVal, valSplitRatio, seed)
	return Partition{Train: train, Val: val, Test: test}
}
