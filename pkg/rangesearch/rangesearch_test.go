package rangesearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/hloo/pkg/rangesearch"
)

func cmpAgainst(values []int, target int) func(i int) int {
	return func(i int) int {
		switch {
		case values[i] < target:
			return -1
		case values[i] > target:
			return 1
		default:
			return 0
		}
	}
}

func TestLocateRange_FindsRun(t *testing.T) {
	t.Parallel()

	values := []int{1, 2, 2, 2, 3, 4}
	start, end := rangesearch.LocateRange(len(values), cmpAgainst(values, 2))
	require.Equal(t, 1, start)
	require.Equal(t, 4, end)
}

func TestLocateRange_NoMatch(t *testing.T) {
	t.Parallel()

	values := []int{1, 2, 4, 5}
	start, end := rangesearch.LocateRange(len(values), cmpAgainst(values, 3))
	require.Equal(t, start, end)
	require.Equal(t, 2, start)
}

func TestLocateRange_Empty(t *testing.T) {
	t.Parallel()

	start, end := rangesearch.LocateRange(0, func(int) int { return 0 })
	require.Equal(t, 0, start)
	require.Equal(t, 0, end)
}

func TestLocateRange_SingleElementMatch(t *testing.T) {
	t.Parallel()

	values := []int{5}
	start, end := rangesearch.LocateRange(1, cmpAgainst(values, 5))
	require.Equal(t, 0, start)
	require.Equal(t, 1, end)
}

func TestLocateRange_WholeSliceMatches(t *testing.T) {
	t.Parallel()

	values := []int{7, 7, 7, 7}
	start, end := rangesearch.LocateRange(len(values), cmpAgainst(values, 7))
	require.Equal(t, 0, start)
	require.Equal(t, 4, end)
}
