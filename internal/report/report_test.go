package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.segment/internal/surface"
	"github.com/banshee-data/terrain.segment/internal/testutil"
)

func sceneResult(t *testing.T) surface.Result {
	t.Helper()
	pts := testutil.Plateau(0, 0, 12, 12, 0)
	pts = append(pts, testutil.Plateau(20, 20, 4, 4, 50)...)
	pts = append(pts, testutil.Plateau(40, 40, 1, 2, 90)...)

	params := surface.DefaultPipelineParams()
	params.Thinout = false
	return surface.NewPipeline(params).Run(pts)
}

func TestRankedBars(t *testing.T) {
	res := sceneResult(t)
	bars := rankedBars(&res)
	require.Len(t, bars, 3)
	assert.Equal(t, 144, bars[0].Points)
	assert.Equal(t, surface.DispositionDominant, bars[0].Disposition)
	assert.Equal(t, surface.DispositionKept, bars[1].Disposition)
	assert.Equal(t, surface.DispositionMinor, bars[2].Disposition)
}

func TestRankedBars_Capped(t *testing.T) {
	hist := make(surface.Histogram, MaxBars+10)
	for i := range hist {
		hist[i] = i
	}
	res := surface.Result{Histogram: hist, Params: surface.DefaultPipelineParams()}
	bars := rankedBars(&res)
	require.Len(t, bars, MaxBars)
	assert.Equal(t, uint32(MaxBars+9), bars[0].ID)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "a.gz", BaseName("scans/a.dat.gz"))
	assert.Equal(t, "a.zst", BaseName("a.DAT.zst"))
	assert.Equal(t, "a.lz4", BaseName("a.dat.lz4"))
	assert.Equal(t, "scan", BaseName("scan.dat"))
	assert.Equal(t, "scan.v2", BaseName("scan.v2.dat"))
	assert.Equal(t, "single", BaseName("single.xyz"))
	assert.Equal(t, "a", BaseName("in/a.dat (+1)"))
	assert.Equal(t, ".hidden", BaseName("/x/.hidden"))
	assert.NotEqual(t, BaseName("scan.dat"), BaseName("scan.dat.gz"))
}

func TestWritePNG(t *testing.T) {
	res := sceneResult(t)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, "scene", &res))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestWritePNG_Empty(t *testing.T) {
	res := surface.Result{Params: surface.DefaultPipelineParams()}
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, "empty", &res))
	assert.NotZero(t, buf.Len())
}

func TestWriteHTML(t *testing.T) {
	res := sceneResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "scene", &res))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Surviving points")
	assert.Contains(t, html, "#d62728")
	assert.True(t, strings.Contains(html, "echarts"))
}

func TestWrite(t *testing.T) {
	res := sceneResult(t)
	dir := filepath.Join(t.TempDir(), "charts")
	files, err := Write(dir, "in/scene.dat", &res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scene_sizes.png"), files.PNG)
	assert.Equal(t, filepath.Join(dir, "scene.html"), files.HTML)

	for _, p := range []string{files.PNG, files.HTML} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}
