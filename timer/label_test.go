package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabelFor_NamedIntervals(t *testing.T) {
	assert.Equal(t, "Second", LabelFor(time.Second))
	assert.Equal(t, "Minute", LabelFor(time.Minute))
	assert.Equal(t, "Hour", LabelFor(time.Hour))
	assert.Equal(t, "Day", LabelFor(24*time.Hour))
}

func TestLabelFor_OtherWholeSeconds(t *testing.T) {
	assert.Equal(t, "5Sec", LabelFor(5*time.Second))
	assert.Equal(t, "90Sec", LabelFor(90*time.Second))
}

func TestLabelFor_SubSecond(t *testing.T) {
	assert.Equal(t, "500Ms", LabelFor(500*time.Millisecond))
	assert.Equal(t, "1500Ms", LabelFor(1500*time.Millisecond))
}

func TestLabelFor_NonPositiveDefaultsToSecond(t *testing.T) {
	assert.Equal(t, "Second", LabelFor(0))
	assert.Equal(t, "Second", LabelFor(-time.Minute))
}
