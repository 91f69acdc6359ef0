package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/watch"
	"github.com/custodia-labs/daisytext/internal/core/domain"
)

func TestWatchCmd_DebounceDefault(t *testing.T) {
	flag := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, watch.DefaultDebounce.String(), flag.DefValue)
}

func TestReprocess_WritesOutputs(t *testing.T) {
	env := setupTestServices(t)
	env.set(t, "segmentation.min_length", 5)
	env.write(t, "raw.txt", "Page 3 of 9\nThis is one.   This is two. Hi.")

	buf := new(bytes.Buffer)
	cmd := outputCommand(buf)
	paths := domain.DefaultAppSettings().Paths

	require.NoError(t, reprocess(cmd, "raw.txt", paths))

	assert.Equal(t, "This is one. This is two. Hi.", env.read(t, paths.CleanText))
	assert.Equal(t, "This is one\nThis is two\n", env.read(t, paths.Segments))
	assert.Contains(t, buf.String(), "29 characters, 2 segments")
}

func TestReprocess_MissingFile(t *testing.T) {
	setupTestServices(t)
	err := reprocess(outputCommand(new(bytes.Buffer)), "gone.txt", domain.DefaultAppSettings().Paths)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWatchCmd_StopsWithContext(t *testing.T) {
	env := setupTestServices(t)
	dir := t.TempDir()
	env.write(t, "output/text/raw_text.txt", "Hello world. Second sentence here.")

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", dir + "/raw.txt", "--debounce", "10ms"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Watching "+dir+"/raw.txt")
}

func outputCommand(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd
}
