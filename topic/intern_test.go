package topic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternTable_SharesInstanceForEqualValue(t *testing.T) {
	it := NewInternTable()

	a, err := it.Intern("realtime.APPL.TradeData")
	require.NoError(t, err)
	b, err := it.Intern("realtime.APPL.TradeData")
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestInternTable_Clear(t *testing.T) {
	it := NewInternTable()

	a, err := it.Intern("realtime.APPL.TradeData")
	require.NoError(t, err)
	it.Clear()
	b, err := it.Intern("realtime.APPL.TradeData")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Value(), b.Value())
}

func TestInternTable_ConcurrentInternIsSafe(t *testing.T) {
	it := NewInternTable()
	const n = 100

	var wg sync.WaitGroup
	results := make([]*Topic, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tp, err := it.Intern("realtime.APPL.TradeData")
			require.NoError(t, err)
			results[idx] = tp
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}
