package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"", zap.InfoLevel, false},
		{"debug", zap.DebugLevel, false},
		{" WARN ", zap.WarnLevel, false},
		{"warning", zap.WarnLevel, false},
		{"error", zap.ErrorLevel, false},
		{"loud", zap.InfoLevel, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseLevel(c.in)
			if c.err {
				require.ErrorIs(t, err, ErrUnknownLevel)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New(Options{Level: "debug", JSON: true})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New(Options{Level: "warn"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = New(Options{Level: "nope"})
	require.ErrorIs(t, err, ErrUnknownLevel)
}
