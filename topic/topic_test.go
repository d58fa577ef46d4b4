package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Classification(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantExact bool
		wantKinds []Kind
	}{
		{"single exact", "APPL", "APPL", true, []Kind{KindExact}},
		{"dotted exact", "realtime.APPL.TradeData", "realtime.APPL.TradeData", true,
			[]Kind{KindExact, KindExact, KindExact}},
		{"bare plus is exact", "realtime.+.TradeData", "realtime.+.TradeData", true,
			[]Kind{KindExact, KindExact, KindExact}},
		{"plus wildcard", "realtime.+ticker.TradeData", "realtime.{ticker}.TradeData", false,
			[]Kind{KindExact, KindAny, KindExact}},
		{"brace wildcard", "realtime.{ticker}.{dtype}", "realtime.{ticker}.{dtype}", false,
			[]Kind{KindExact, KindAny, KindAny}},
		{"empty parens is exact", "realtime.().TradeData", "realtime.().TradeData", true,
			[]Kind{KindExact, KindExact, KindExact}},
		{"range single option", "realtime.(APPL).TradeData", "realtime.(APPL).TradeData", false,
			[]Kind{KindExact, KindRange, KindExact}},
		{"range multi option", "realtime.(APPL|MSFT).TradeData", "realtime.(APPL|MSFT).TradeData", false,
			[]Kind{KindExact, KindRange, KindExact}},
		{"pattern", "realtime./AAPL|MSFT/.TradeData", "realtime./AAPL|MSFT/.TradeData", false,
			[]Kind{KindExact, KindPattern, KindExact}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tp, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, tp.Value())
			assert.Equal(t, tc.wantExact, tp.IsExact())
			kinds := make([]Kind, len(tp.Parts()))
			for i, p := range tp.Parts() {
				kinds[i] = p.Kind
			}
			assert.Equal(t, tc.wantKinds, kinds)
		})
	}
}

func TestParse_CanonicalRoundTrip(t *testing.T) {
	canonical := []string{
		"realtime.APPL.TradeData",
		"realtime.{ticker}.{dtype}",
		"realtime.(APPL|MSFT).TradeData",
		"realtime./AAPL|MSFT/.TradeData",
		"EventEngine.Internal.Timer.Second",
	}
	for _, s := range canonical {
		tp, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, tp.Value())

		again, err := Parse(tp.Value())
		require.NoError(t, err)
		assert.Equal(t, tp.Value(), again.Value())
	}
}

func TestParse_InvalidTopics(t *testing.T) {
	invalid := []string{
		"",
		"realtime./unterminated",
		"realtime.(unterminated",
		"realtime./[/.TradeData",
	}
	for _, s := range invalid {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidTopic, "input %q", s)
	}
}

func TestParse_EmptyPartBetweenDots(t *testing.T) {
	_, err := Parse("realtime..TradeData")
	assert.ErrorIs(t, err, ErrInvalidTopic)
}

func TestParse_DotInsidePatternIsNotASplit(t *testing.T) {
	tp, err := Parse(`realtime./A\.B/.TradeData`)
	require.NoError(t, err)
	assert.Len(t, tp.Parts(), 3)
	assert.Equal(t, KindPattern, tp.Parts()[1].Kind)
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustParse("")
	})
}
