package cli_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberofficial/pyaint/internal/cli"
	"github.com/cyberofficial/pyaint/internal/palette"
)

// writePNG writes a one pixel tall image with count pixels of each colour,
// in order.
func writePNG(t *testing.T, dir string, colours []color.NRGBA, counts []int) string {
	t.Helper()

	width := 0
	for _, n := range counts {
		width += n
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, 1))
	x := 0
	for i, c := range colours {
		for range counts[i] {
			img.SetNRGBA(x, 0, c)
			x++
		}
	}

	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// run executes the CLI with an isolated config file.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestPaletteCommand(t *testing.T) {
	path := writePNG(t, t.TempDir(), []color.NRGBA{blue, white, red}, []int{20, 50, 40})

	t.Run("hex", func(t *testing.T) {
		stdout, _, err := run(t, "palette", path)
		require.NoError(t, err)
		assert.Equal(t, "#ff0000\n#0000ff\n", stdout)
	})

	t.Run("rgb with white", func(t *testing.T) {
		stdout, _, err := run(t, "palette", "--ignore-white=false", "-f", "rgb", "-n", "2", path)
		require.NoError(t, err)
		assert.Equal(t, "rgb(255, 255, 255)\nrgb(255, 0, 0)\n", stdout)
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "palette", "-f", "json", "-s", "rare_shades", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, `"strategy": "rare_shades"`)
		assert.Contains(t, stdout, `"hex": "#0000ff"`)
	})

	t.Run("css to stdout", func(t *testing.T) {
		stdout, _, err := run(t, "palette", "-f", "css", "-n", "1", path)
		require.NoError(t, err)
		assert.Equal(t, palette.CSSHeader+"\n.0 { color: rgb(255, 0, 0); }\n", stdout)
	})

	t.Run("strategy flag is normalised", func(t *testing.T) {
		stdout, stderr, err := run(t, "palette", "-f", "json", "-s", " Dominant_Shades ", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, `"strategy": "dominant_shades"`)
		assert.NotContains(t, stderr, "unknown palette strategy")
	})

	t.Run("kmeans seed is repeatable", func(t *testing.T) {
		first, _, err := run(t, "palette", "-s", "kmeans", "-n", "2", "--seed", "9", path)
		require.NoError(t, err)
		second, _, err := run(t, "palette", "-s", "kmeans", "-n", "2", "--seed", "9", path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "palette", "-f", "yaml", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("unknown strategy falls back", func(t *testing.T) {
		stdout, stderr, err := run(t, "palette", "-s", "median_cut", path)
		require.NoError(t, err)
		assert.Equal(t, "#ff0000\n#0000ff\n", stdout)
		assert.Contains(t, stderr, "unknown palette strategy")
	})

	t.Run("oversize is clamped", func(t *testing.T) {
		stdout, _, err := run(t, "palette", "-n", "1000", path)
		require.NoError(t, err)
		assert.Equal(t, "#ff0000\n#0000ff\n", stdout)
	})
}

func TestPaletteCommandExport(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, []color.NRGBA{red, blue}, []int{3, 1})
	cssPath := filepath.Join(dir, "palette.css")

	_, stderr, err := run(t, "palette", "-o", cssPath, path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported 2 colours to "+cssPath)

	data, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	assert.Equal(t, palette.CSSHeader+"\n.0 { color: rgb(255, 0, 0); }\n.1 { color: rgb(0, 0, 255); }\n", string(data))

	_, _, err = run(t, "palette", "-o", filepath.Join(dir, "missing", "palette.css"), path)
	var exportErr *palette.ExportError
	assert.ErrorAs(t, err, &exportErr)
}

func TestPaletteCommandTies(t *testing.T) {
	path := writePNG(t, t.TempDir(), []color.NRGBA{red, green, blue}, []int{10, 10, 10})

	stdout, stderr, err := run(t, "palette", "--ties", "-n", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000\n#00ff00\n", stdout)
	assert.Contains(t, stderr, "Tie from position 0: 3 colours with 10 pixels each: #ff0000, #00ff00, #0000ff")

	// --quiet silences diagnostics, not the report that was asked for.
	stdout, stderr, err = run(t, "--quiet", "palette", "--ties", "-n", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000\n#00ff00\n", stdout)
	assert.Contains(t, stderr, "Tie from position 0: 3 colours with 10 pixels each")
}

func TestPaletteCommandKMeans(t *testing.T) {
	path := writePNG(t, t.TempDir(), []color.NRGBA{red, blue}, []int{30, 30})

	stdout, stderr, err := run(t, "palette", "-s", "kmeans", "-n", "2", "--seed", "5", "--progress", "-f", "rgb", path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rgb(255, 0, 0)", "rgb(0, 0, 255)", ""}, strings.Split(stdout, "\n"), "stdout: %q", stdout)
	assert.Contains(t, stderr, "clustering: 0%")
	assert.Contains(t, stderr, "clustering: 100%")
}

func TestPaletteCommandInvalidImage(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "palette", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image file not found")

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	_, _, err = run(t, "palette", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image path")
}

func TestPaletteCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, []color.NRGBA{blue, white, red}, []int{20, 50, 40})
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ignore_white = false\n\n[palette]\nsize = 1\n"), 0o600))

	var outBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfgPath, "palette", path})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "#ffffff\n", outBuf.String())

	outBuf.Reset()
	rootCmd = cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfgPath, "palette", "-n", "2", "--ignore-white", path})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "#ff0000\n#0000ff\n", outBuf.String())
}

func TestStatsCommand(t *testing.T) {
	path := writePNG(t, t.TempDir(), []color.NRGBA{blue, white, red}, []int{20, 50, 40})

	stdout, _, err := run(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "#ff0000")
	assert.Contains(t, stdout, "66.67%")
	assert.Contains(t, stdout, "33.33%")
	assert.NotContains(t, stdout, "#ffffff")
	assert.Contains(t, stdout, "2 distinct colours, 60 pixels considered")

	stdout, _, err = run(t, "stats", "--limit", "1", "--ignore-white=false", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "#ffffff")
	assert.NotContains(t, stdout, "#0000ff")
	assert.Contains(t, stdout, "3 distinct colours, 110 pixels considered")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pyaint version")
}
