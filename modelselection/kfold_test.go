package modelselection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKFoldSplit(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)

	kf := NewKFold(5, false, 0)
	folds := kf.Split(X, y)
	require.Len(t, folds, 5)

	seen := make([]int, 0, 10)
	for _, fold := range folds {
		assert.Len(t, fold.TestIndices, 2)
		assert.Len(t, fold.TrainIndices, 8)

		// Train and test must be disjoint within a fold.
		testSet := make(map[int]bool)
		for _, idx := range fold.TestIndices {
			testSet[idx] = true
		}
		for _, idx := range fold.TrainIndices {
			assert.False(t, testSet[idx], "index %d in both train and test", idx)
		}

		seen = append(seen, fold.TestIndices...)
	}

	// Every sample appears in exactly one test fold.
	sort.Ints(seen)
	require.Len(t, seen, 10)
	for i, idx := range seen {
		assert.Equal(t, i, idx)
	}
}

func TestKFoldSplitRemainder(t *testing.T) {
	X := mat.NewDense(11, 2, nil)
	y := mat.NewDense(11, 1, nil)

	folds := NewKFold(3, false, 0).Split(X, y)
	require.Len(t, folds, 3)

	// 11 = 4 + 4 + 3; earlier folds absorb the remainder.
	assert.Len(t, folds[0].TestIndices, 4)
	assert.Len(t, folds[1].TestIndices, 4)
	assert.Len(t, folds[2].TestIndices, 3)

	total := 0
	for _, fold := range folds {
		total += len(fold.TestIndices)
	}
	assert.Equal(t, 11, total)
}

func TestKFoldShuffleDeterministic(t *testing.T) {
	X := mat.NewDense(20, 2, nil)
	y := mat.NewDense(20, 1, nil)

	first := NewKFold(4, true, 42).Split(X, y)
	second := NewKFold(4, true, 42).Split(X, y)
	assert.Equal(t, first, second)

	other := NewKFold(4, true, 7).Split(X, y)
	assert.NotEqual(t, first, other)
}

func TestNewKFoldDefaults(t *testing.T) {
	kf := NewKFold(0, false, 0)
	assert.Equal(t, 5, kf.GetNSplits())

	kf = NewKFold(1, false, 0)
	assert.Equal(t, 5, kf.GetNSplits())
}

func TestExtractSubset(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})
	y := mat.NewDense(4, 1, []float64{10, 20, 30, 40})

	subX, subY := extractSubset(X, y, []int{3, 1})
	assert.Equal(t, []float64{7, 8}, mat.Row(nil, 0, subX))
	assert.Equal(t, []float64{3, 4}, mat.Row(nil, 1, subX))
	assert.Equal(t, 40.0, subY.At(0, 0))
	assert.Equal(t, 20.0, subY.At(1, 0))
}
