package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_SendLossAlert(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	n := NewNoOpNotifier(log)
	alert := testAlert(-2.5)

	err := n.SendLossAlert(context.Background(), &alert)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "loss alert discarded")
	assert.Contains(t, buf.String(), "pdd_group")
}
