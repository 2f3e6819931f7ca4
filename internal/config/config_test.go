package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slate.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Player.LogLevel)
	assert.Equal(t, 1.0, cfg.Player.Speed)
	assert.Equal(t, time.Second, cfg.Player.LoopDelay)
	assert.Equal(t, "./data/slate.db", cfg.Catalog.Path)
	assert.Empty(t, cfg.Filters.Chain)
	assert.Equal(t, 9, cfg.Filters.Bilateral.Diameter)
}

func TestLoad_FullFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[player]
log_level = "debug"
loop = true
shuffle = true
speed = 1.5

[scan]
roots = ["`+dir+`"]
disable_gif = true
max_dir_reads = 4

[catalog]
path = "`+dir+`/catalog.db"

[accelerator]
enabled = true
vendor = "cuda"

[filters]
chain = ["sepia", "sharpen"]

[filters.sepia]
preset = "warm"
intensity = 0.7

[filters.sharpen]
kernel = 1
strength = 5.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Player.LogLevel)
	assert.True(t, cfg.Player.Loop)
	assert.True(t, cfg.Player.Shuffle)
	assert.Equal(t, 1.5, cfg.Player.Speed)
	assert.Equal(t, []string{dir}, cfg.Scan.Roots)
	assert.True(t, cfg.Scan.DisableGIF)
	assert.Equal(t, int64(4), cfg.Scan.MaxDirReads)
	assert.True(t, cfg.Accelerator.Enabled)
	assert.Equal(t, "cuda", cfg.Accelerator.Vendor)
	assert.Equal(t, []string{"sepia", "sharpen"}, cfg.Filters.Chain)
	assert.Equal(t, "warm", cfg.Filters.Sepia.Preset)
	assert.Equal(t, 0.7, cfg.Filters.Sepia.Intensity)
	assert.Equal(t, 1, cfg.Filters.Sharpen.Kernel)

	assert.Empty(t, cfg.Validate())
}

func TestLoad_PartialFiltersKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
[filters]
chain = ["gaussian_blur"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Unlisted parameter tables keep the built-in defaults, so the
	// chain validates without the file spelling everything out.
	assert.Equal(t, 5, cfg.Filters.Gaussian.Kernel)
	assert.Equal(t, "classic", cfg.Filters.Sepia.Preset)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("SLATE_TEST_ROOT", "/srv/media")
	path := writeConfig(t, `
[scan]
roots = ["${SLATE_TEST_ROOT}"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/media"}, cfg.Scan.Roots)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[catalog]
path = "${SLATE_DEFINITELY_UNSET_VAR}/slate.db"
`)

	_, err := Load(path)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"SLATE_DEFINITELY_UNSET_VAR"}, cerr.Missing)
	assert.True(t, cerr.HasErrors())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `[player`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.Player.LogLevel = "verbose"
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "player.log_level")
}

func TestValidate_SpeedRange(t *testing.T) {
	cfg := Default()
	cfg.Player.Speed = 0.1
	assert.NotEmpty(t, cfg.Validate())

	cfg.Player.Speed = 6
	assert.NotEmpty(t, cfg.Validate())

	cfg.Player.Speed = 2.0
	assert.Empty(t, cfg.Validate())
}

func TestValidate_AcceleratorVendorRequired(t *testing.T) {
	cfg := Default()
	cfg.Accelerator.Enabled = true
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "accelerator.vendor")
}

func TestValidate_FilterErrorsPrefixed(t *testing.T) {
	cfg := Default()
	cfg.Filters.Chain = []string{"median_blur"}
	cfg.Filters.Median.Kernel = 4

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "filters.median_blur.kernel")
}

func TestValidate_MissingRootWarning(t *testing.T) {
	cfg := Default()
	cfg.Scan.Roots = []string{"/does/not/exist/at/all"}

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "warning:")
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("SLATE_A", "alpha")
	out, missing := substituteEnvVars("x=${SLATE_A} y=${SLATE_B_UNSET}")
	assert.Equal(t, "x=alpha y=${SLATE_B_UNSET}", out)
	assert.Equal(t, []string{"SLATE_B_UNSET"}, missing)
}
