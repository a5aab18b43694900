package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookupsFallBackToDefault(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_INT", "not-a-number")
	t.Setenv("PORTFOLIO_TEST_BLANK", "   ")

	require.Equal(t, 7, Int("PORTFOLIO_TEST_INT", 7, nil))
	require.Equal(t, "def", String("PORTFOLIO_TEST_BLANK", "def", nil))
	require.Equal(t, "def", String("PORTFOLIO_TEST_UNSET", "def", nil))
}

func TestLookupsParse(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_DUR_SECS", "90")
	t.Setenv("PORTFOLIO_TEST_DUR", "1m30s")
	t.Setenv("PORTFOLIO_TEST_BOOL", "yes")
	t.Setenv("PORTFOLIO_TEST_CSV", "a, b,,c ")
	t.Setenv("PORTFOLIO_TEST_FLOAT", "0.25")

	require.Equal(t, 90*time.Second, Duration("PORTFOLIO_TEST_DUR_SECS", 0, nil))
	require.Equal(t, 90*time.Second, Duration("PORTFOLIO_TEST_DUR", 0, nil))
	require.True(t, Bool("PORTFOLIO_TEST_BOOL", false, nil))
	require.Equal(t, []string{"a", "b", "c"}, CSV("PORTFOLIO_TEST_CSV", nil, nil))
	require.InDelta(t, 0.25, Float("PORTFOLIO_TEST_FLOAT", 1, nil), 1e-9)
}
