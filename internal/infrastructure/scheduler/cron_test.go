package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression_Invalid(t *testing.T) {
	cases := []string{
		"",
		"* * * *",
		"* * * * * *",
		"61 * * * *",
		"* 25 * * *",
		"abc * * * *",
	}
	for _, expr := range cases {
		_, err := ParseCronExpression(expr)
		assert.Error(t, err, "expr=%q", expr)
	}
}

func TestCronExpression_NextDaily(t *testing.T) {
	ce, err := ParseCronExpression("0 4 * * *")
	require.NoError(t, err)

	after := time.Date(2026, 8, 30, 3, 59, 30, 0, time.UTC)
	next := ce.Next(after)
	assert.Equal(t, time.Date(2026, 8, 30, 4, 0, 0, 0, time.UTC), next)

	// После 04:00 - только следующий день.
	after = time.Date(2026, 8, 30, 4, 0, 0, 0, time.UTC)
	next = ce.Next(after)
	assert.Equal(t, time.Date(2026, 8, 31, 4, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_NextStep(t *testing.T) {
	ce, err := ParseCronExpression("*/15 * * * *")
	require.NoError(t, err)

	after := time.Date(2026, 8, 30, 10, 7, 0, 0, time.UTC)
	next := ce.Next(after)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC), next)
}

func TestCronExpression_NextWeekday(t *testing.T) {
	// Воскресенье в полночь. 2026-08-30 - воскресенье.
	ce, err := ParseCronExpression("0 0 * * 0")
	require.NoError(t, err)

	after := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	next := ce.Next(after)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Sunday, next.Weekday())
}

func TestCronExpression_String(t *testing.T) {
	ce, err := ParseCronExpression("0 */6 * * *")
	require.NoError(t, err)
	assert.Equal(t, "0 */6 * * *", ce.String())
}
