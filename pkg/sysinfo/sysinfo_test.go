package sysinfo_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/sysinfo"
)

func TestNew(t *testing.T) {
	t.Parallel()

	info := sysinfo.New("devbox", "development")
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, runtime.GOOS, info.OS)
	require.Equal(t, "devbox", info.Hostname)
	require.Equal(t, "development", info.Environment)
	require.Positive(t, info.NumCPU)
	require.False(t, info.StartedAt.IsZero())
	require.Positive(t, info.Runtime().Goroutines)
}
