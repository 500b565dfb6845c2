package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	mode  int
	label string
}

func TestApply(t *testing.T) {
	t.Run("Applies in order", func(t *testing.T) {
		cfg := &testConfig{}

		err := Apply(cfg,
			NoError(func(c *testConfig) { c.mode = 1 }),
			NoError(func(c *testConfig) { c.label = "packed" }),
			NoError(func(c *testConfig) { c.mode = 2 }),
		)

		require.NoError(t, err)
		require.Equal(t, 2, cfg.mode)
		require.Equal(t, "packed", cfg.label)
	})

	t.Run("Stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		wantErr := errors.New("bad option")

		err := Apply(cfg,
			NoError(func(c *testConfig) { c.mode = 1 }),
			New(func(c *testConfig) error { return wantErr }),
			NoError(func(c *testConfig) { c.mode = 99 }),
		)

		require.ErrorIs(t, err, wantErr)
		require.Equal(t, 1, cfg.mode, "options after the failing one must not run")
	})

	t.Run("No options", func(t *testing.T) {
		cfg := &testConfig{mode: 5}

		require.NoError(t, Apply(cfg))
		require.Equal(t, 5, cfg.mode)
	})
}
