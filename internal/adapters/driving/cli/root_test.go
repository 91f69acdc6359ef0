package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/textfile"
	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/core/services"
)

type fakeRasteriser struct{}

func (fakeRasteriser) Rasterise(_ context.Context, _, outDir string, _ int) ([]domain.PageImage, error) {
	return []domain.PageImage{
		{Number: 1, Path: filepath.Join(outDir, "page_1.png")},
		{Number: 2, Path: filepath.Join(outDir, "page_2.png")},
	}, nil
}

func (fakeRasteriser) Available(_ context.Context) error { return nil }

type fakeEngine struct {
	pages map[int]string
}

func (e *fakeEngine) Recognise(_ context.Context, page domain.PageImage) (string, error) {
	return e.pages[page.Number], nil
}
func (e *fakeEngine) Check(_ context.Context) error { return nil }
func (e *fakeEngine) Version() string               { return "fake" }
func (e *fakeEngine) Close() error                  { return nil }

// testEnv wires real services over in-memory stores.
type testEnv struct {
	fs       afero.Fs
	config   *memory.ConfigStore
	runStore *memory.RunStore
	settings *services.SettingsService
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		fs:       afero.NewMemMapFs(),
		config:   memory.NewConfigStore(),
		runStore: memory.NewRunStore(),
	}
	env.settings = services.NewSettingsService(env.config,
		services.WithEnvLookup(func(string) (string, bool) { return "", false }))

	files := textfile.NewStore(env.fs)
	engine := &fakeEngine{pages: map[int]string{
		1: "Trang 1\nXin chào các bạn. Đây là câu thứ hai!",
		2: "Page 2 of 9\nMột đoạn văn mới ở đây.",
	}}
	pipeline := services.NewPipelineService(env.settings, files,
		services.WithRasteriser(fakeRasteriser{}),
		services.WithRecognitionEngine(func(domain.OCRSettings) (driven.RecognitionEngine, error) {
			return engine, nil
		}),
		services.WithRunStore(env.runStore),
	)

	SetServices(&Services{
		Pipeline: pipeline,
		Settings: env.settings,
		Runs:     services.NewRunService(env.runStore),
		Files:    files,
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

func (e *testEnv) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(e.fs, path, []byte(content), 0o644))
}

func (e *testEnv) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(e.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) set(t *testing.T, key string, value any) {
	t.Helper()
	require.NoError(t, e.config.Set(key, value))
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "daisytext", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"run", "ocr", "clean", "segment", "config", "runs", "browse", "watch", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "env-file", "set"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("DAISYTEXT_SEGMENTATION_MIN_LENGTH", "")
	t.Setenv("DAISYTEXT_OCR_LANGUAGE", "")

	err := applyOverrides([]string{"segmentation.min_length=3", "ocr.language = vie+eng"})

	require.NoError(t, err)
	assert.Equal(t, "3", os.Getenv("DAISYTEXT_SEGMENTATION_MIN_LENGTH"))
	assert.Equal(t, " vie+eng", os.Getenv("DAISYTEXT_OCR_LANGUAGE"))
}

func TestApplyOverrides_Invalid(t *testing.T) {
	tests := []string{"novalue", "=value", " =x"}
	for _, pair := range tests {
		t.Run(pair, func(t *testing.T) {
			err := applyOverrides([]string{pair})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "expected key=value")
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "DAISYTEXT_TEST_ENV_FILE_KEY"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadEnvFile_MissingExplicitFile(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading env file")
}

func TestLoadEnvFile_DefaultMissingIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.NoError(t, loadEnvFile(""))
}

func TestSetup_UsesServiceFactory(t *testing.T) {
	var gotDir string
	closed := false
	SetServiceFactory(func(dir string) (*Services, error) {
		gotDir = dir
		return &Services{Close: func() error {
			closed = true
			return nil
		}}, nil
	})
	defer func() {
		SetServiceFactory(nil)
		SetServices(nil)
	}()

	out, err := execute(t, "", "--config-dir", "/tmp/daisy-conf", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "daisytext version")
	assert.Equal(t, "/tmp/daisy-conf", gotDir)
	assert.True(t, closed)
}

func TestSetup_FactoryError(t *testing.T) {
	SetServiceFactory(func(string) (*Services, error) {
		return nil, domain.NewConfigError("ocr.dpi", "must be at least 72")
	})
	defer SetServiceFactory(nil)

	_, err := execute(t, "", "version")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "initialising services")
}

func TestCommands_ErrorWithoutServices(t *testing.T) {
	SetServices(nil)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"run"}, "pipeline service not configured"},
		{[]string{"clean", "-"}, "pipeline service not configured"},
		{[]string{"segment", "-"}, "pipeline service not configured"},
		{[]string{"config", "show"}, "settings service not configured"},
		{[]string{"runs", "list"}, "run archive not configured"},
		{[]string{"mcp", "serve"}, "pipeline service is required"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
