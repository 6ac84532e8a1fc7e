package postprocess

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAreaTexture(t *testing.T) {
	t.Parallel()

	area := GenerateAreaTexture()
	require.NoError(t, area.check(AreaTexSize, AreaTexSize, 2))

	// No crossing edges at either end: no coverage anywhere in the first cell.
	for y := 0; y < areaCellSize; y++ {
		for x := 0; x < areaCellSize; x++ {
			assert.Zero(t, area.At(x, y, 0))
			assert.Zero(t, area.At(x, y, 1))
		}
	}

	// A single pixel long edge crossing below on the left covers an eighth of the pixel.
	assert.Equal(t, byte(32), area.At(48, 0, 0))
	assert.Equal(t, byte(0), area.At(48, 0, 1))

	staging := area.Staging()
	assert.Equal(t, wgpu.TextureFormatRG8Unorm, staging.Format)
	assert.Equal(t, uint32(AreaTexSize), staging.Width)
}

func TestGenerateAreaTextureIsSymmetric(t *testing.T) {
	t.Parallel()

	// Mirroring a pattern swaps its ends, so the two cells hold transposed coverage.
	area := GenerateAreaTexture()
	for left := 0; left < areaCellSize; left++ {
		for right := 0; right < areaCellSize; right++ {
			a := area.At(3*areaCellSize+left, right, 0)
			b := area.At(right, 3*areaCellSize+left, 0)
			assert.InDelta(t, a, b, 1, "left %d right %d", left, right)
		}
	}
}

func TestSearchCodesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[int]int)
	for v := 0; v < 16; v++ {
		code := SearchCode(bitsOf(v))
		assert.LessOrEqual(t, code, 32)
		prev, dup := seen[code]
		assert.False(t, dup, "codes of %d and %d collide", prev, v)
		seen[code] = v
	}
}

func TestGenerateSearchTexture(t *testing.T) {
	t.Parallel()

	search := GenerateSearchTexture()
	require.NoError(t, search.check(SearchTexWidth, SearchTexHeight, 1))
	assert.Equal(t, wgpu.TextureFormatR8Unorm, search.Staging().Format)

	none := [4]bool{}
	both := [4]bool{false, false, true, true}
	nearOnly := [4]bool{false, false, false, true}

	y := SearchCode(both)
	assert.Equal(t, byte(2*searchStepValue), search.At(SearchCode(none), y, 0))
	assert.Equal(t, byte(2*searchStepValue), search.At(searchHalfWidth+SearchCode(none), y, 0))

	y = SearchCode(nearOnly)
	assert.Equal(t, byte(searchStepValue), search.At(SearchCode(none), y, 0))

	// A crossing edge on the near pixel ends a rightward search there.
	crossed := [4]bool{false, true, false, false}
	assert.Equal(t, 0, searchDeltaRight(crossed, both))
	assert.Equal(t, 1, searchDeltaLeft(crossed, both))
}

func TestLookupTexturePNGRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tex := range []*LookupTexture{GenerateAreaTexture(), GenerateSearchTexture()} {
		var buf bytes.Buffer
		require.NoError(t, tex.WritePNG(&buf))

		got, err := ReadLookupPNG(tex.Name, &buf, tex.Channels)
		require.NoError(t, err)
		assert.Equal(t, tex.Width, got.Width)
		assert.Equal(t, tex.Height, got.Height)
		assert.Equal(t, tex.Pixels, got.Pixels, tex.Name)
	}
}

func TestExportLookupTexturesLoadsBack(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "smaa")
	paths, err := ExportLookupTextures(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	area, err := FileAsset{Path: paths[0]}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenerateAreaTexture().Pixels, area.Pixels)

	search, err := FileAsset{Path: paths[1], Search: true}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenerateSearchTexture().Pixels, search.Pixels)
}

func TestFileAssetRejectsWrongSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths, err := ExportLookupTextures(dir)
	require.NoError(t, err)

	// The search table is not a valid area table.
	_, err = FileAsset{Path: paths[1]}.Load(context.Background())
	require.Error(t, err)

	_, err = FileAsset{Path: filepath.Join(dir, "missing.png")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
