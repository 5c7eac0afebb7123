package poster

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunPoster_Post(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	p := NewDryRunPoster()

	result, err := p.Post(context.Background(), PostContent{Text: "hello dry run"})
	require.NoError(t, err)

	assert.Empty(t, result.PostID)
	assert.Empty(t, result.PostURL)
	assert.Contains(t, buf.String(), "[dry-run] would have posted")
	assert.Contains(t, buf.String(), "hello dry run")
}

func TestDryRunPoster_ValidateCredentials(t *testing.T) {
	p := NewDryRunPoster()
	assert.NoError(t, p.ValidateCredentials(context.Background()))
}

func TestDryRunPoster_Platform(t *testing.T) {
	assert.Equal(t, "dry-run", NewDryRunPoster().Platform())
}
