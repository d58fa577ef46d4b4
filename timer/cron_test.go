package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/eventengine/engine"
)

func TestSanitizeCronLabel(t *testing.T) {
	assert.Equal(t, "x-5_x_x_x_x", sanitizeCronLabel("*/5 * * * *"))
	assert.Equal(t, "Cron", sanitizeCronLabel(""))
}

func TestService_GetCronTimer_RejectsInvalidExpression(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	svc := NewService(e, nil)

	_, err := svc.GetCronTimer("not a cron expression")
	assert.Error(t, err)
}

func TestService_GetCronTimer_ReusesWorkerForSameExpression(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	svc := NewService(e, nil)

	t1, err := svc.GetCronTimer("*/5 * * * *")
	require.NoError(t, err)
	t2, err := svc.GetCronTimer("*/5 * * * *")
	require.NoError(t, err)

	assert.Equal(t, t1.Value(), t2.Value())
	assert.Equal(t, 1, len(svc.crons))
}
