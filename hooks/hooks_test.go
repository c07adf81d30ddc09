package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook.tengo")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunExposesVars(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	path := writeScript(t, `
fmt := import("fmt")
text := import("text")
banner := fmt.sprintf("%s:%d", text.to_upper(levelpack), level + 1)
log("starting ", banner)
`)
	res, err := Run(context.Background(), path, map[string]interface{}{
		"levelpack": "main",
		"level":     2,
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "MAIN:3", res.String("banner"))
	assert.Equal(t, 2, res.Int("level"))
	assert.Equal(t, "", res.String("missing"))
	assert.Contains(t, buf.String(), "starting MAIN:3")
}

func TestRunMissingScript(t *testing.T) {
	res, err := Run(context.Background(), "", nil, log.Default())
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = Run(context.Background(), filepath.Join(t.TempDir(), "none.tengo"), nil, log.Default())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "", res.String("x"))
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), writeScript(t, `x := `), nil, log.Default())
	assert.ErrorContains(t, err, "compile")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Run(ctx, writeScript(t, `for { }`), nil, log.Default())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
