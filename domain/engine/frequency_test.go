package engine

import (
	"testing"

	"totopredict/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(no int64, numbers ...int) *entities.HistoricalDraw {
	return &entities.HistoricalDraw{DrawNo: no, WinningNumbers: numbers}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	t.Parallel()

	table, err := Analyze(nil, 10, 1, 49)
	require.NoError(t, err)

	assert.Equal(t, 49, table.Len())
	assert.Equal(t, 0, table.Max())
	counts := table.Map()
	for n := 1; n <= 49; n++ {
		count, ok := counts[n]
		assert.True(t, ok, "number %d must have an entry", n)
		assert.Equal(t, 0, count)
	}
}

func TestAnalyze_WindowUsesMostRecentDraws(t *testing.T) {
	t.Parallel()

	// Deliberately out of order
	draws := []*entities.HistoricalDraw{
		draw(4141, 4, 5, 13, 22, 24, 30),
		draw(4143, 2, 4, 22, 24, 30, 33),
		draw(4142, 3, 8, 15, 28, 37, 43),
	}

	table, err := Analyze(draws, 2, 1, 49)
	require.NoError(t, err)

	// Window holds 4143 and 4142 only
	assert.Equal(t, 1, table.Count(2))
	assert.Equal(t, 1, table.Count(4))
	assert.Equal(t, 1, table.Count(3))
	assert.Equal(t, 0, table.Count(5), "draw 4141 is outside the window")
	assert.Equal(t, 0, table.Count(13))
	assert.Equal(t, 1, table.Max())
}

func TestAnalyze_WindowLargerThanHistory(t *testing.T) {
	t.Parallel()

	draws := []*entities.HistoricalDraw{
		draw(2, 1, 2, 3, 4, 5, 6),
		draw(1, 1, 2, 3, 7, 8, 9),
	}

	table, err := Analyze(draws, 100, 1, 49)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Count(1))
	assert.Equal(t, 1, table.Count(9))
	assert.Equal(t, 2, table.Max())
	assert.Equal(t, 49, table.Len())
}

func TestAnalyze_IgnoresOutOfRangeNumbers(t *testing.T) {
	t.Parallel()

	table, err := Analyze([]*entities.HistoricalDraw{draw(1, 0, 1, 2, 3, 4, 50)}, 5, 1, 49)
	require.NoError(t, err)

	assert.Equal(t, 49, table.Len())
	assert.Equal(t, 0, table.Count(0))
	assert.Equal(t, 0, table.Count(50))
	assert.Equal(t, 1, table.Count(1))
}

func TestAnalyze_InvalidWindow(t *testing.T) {
	t.Parallel()

	for _, window := range []int{0, -3} {
		_, err := Analyze(nil, window, 1, 49)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestAnalyze_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	draws := []*entities.HistoricalDraw{draw(1, 1, 2, 3, 4, 5, 6), draw(2, 7, 8, 9, 10, 11, 12)}

	_, err := Analyze(draws, 1, 1, 49)
	require.NoError(t, err)

	assert.Equal(t, int64(1), draws[0].DrawNo)
	assert.Equal(t, int64(2), draws[1].DrawNo)
}
