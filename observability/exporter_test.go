package observability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"

	"github.com/benz9527/bstkv/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	mp, shutdown, err := NewConsoleMetricsExporter(
		time.Second, time.Second,
		stdoutmetric.WithWriter(io.Discard),
	)
	require.NoError(t, err)
	require.NotNil(t, mp)

	bst := NewObservedBST(tree.NewBST(), WithObservedName("console"))
	require.NoError(t, bst.Add(1, 1))
	require.NoError(t, shutdown(context.Background()))
}

func TestPrometheusMetricsExporter(t *testing.T) {
	mp, shutdown, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NotNil(t, mp)
	require.NoError(t, StartRuntimeStats(mp))
	require.NoError(t, shutdown(context.Background()))
}
