package postprocess

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// AreaTexSize is the edge length of the orthogonal area texture: 5x5 cells of areaCellSize texels.
	AreaTexSize  = 80
	areaCellSize = 16

	// SearchTexWidth holds the left-search half followed by the right-search half.
	SearchTexWidth  = 66
	SearchTexHeight = 33
	searchHalfWidth = SearchTexWidth / 2

	// smoothMaxDistance is the pattern length at which U shapes stop being smoothed.
	smoothMaxDistance = 32
	// searchStepValue encodes one pixel of search correction.
	searchStepValue = 127
)

// areaCells maps an edge pattern to the cell it occupies. A cell coordinate is round(4*e) of the
// crossing edge value at that end: 0 none, 1 above, 3 below, 4 both.
var areaCells = [16][2]int{
	{0, 0}, {3, 0}, {0, 3}, {3, 3}, {1, 0}, {4, 0}, {1, 3}, {4, 3},
	{0, 1}, {3, 1}, {0, 4}, {3, 4}, {1, 1}, {4, 1}, {1, 4}, {4, 4},
}

// LookupTexture is one of the precomputed SMAA tables, tightly packed with Channels bytes per texel.
type LookupTexture struct {
	Name     string
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// At returns channel c of texel (x, y).
func (t *LookupTexture) At(x, y, c int) byte {
	return t.Pixels[(y*t.Width+x)*t.Channels+c]
}

// Staging converts the table to upload data. Area tables are RG8, search tables R8.
func (t *LookupTexture) Staging() common.TextureStagingData {
	format := wgpu.TextureFormatR8Unorm
	if t.Channels == 2 {
		format = wgpu.TextureFormatRG8Unorm
	}
	return common.TextureStagingData{
		Pixels: t.Pixels,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
		Format: format,
	}
}

// check verifies the dimensions of a table produced or loaded for name.
func (t *LookupTexture) check(width, height, channels int) error {
	if t.Width != width || t.Height != height || t.Channels != channels {
		return fmt.Errorf("%s: got %dx%d with %d channels, want %dx%d with %d", t.Name, t.Width, t.Height, t.Channels, width, height, channels)
	}
	if len(t.Pixels) != width*height*channels {
		return fmt.Errorf("%s: %d bytes of pixel data, want %d", t.Name, len(t.Pixels), width*height*channels)
	}
	return nil
}

// WritePNG encodes the table. Two channel tables are stored in the red and green channels of an RGBA image.
func (t *LookupTexture) WritePNG(w io.Writer) error {
	rect := image.Rect(0, 0, t.Width, t.Height)
	if t.Channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, t.Pixels)
		return png.Encode(w, img)
	}
	img := image.NewNRGBA(rect)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: t.At(x, y, 0), G: t.At(x, y, 1), A: 0xff})
		}
	}
	return png.Encode(w, img)
}

// ReadLookupPNG decodes a table written by WritePNG, keeping the first channels channels.
func ReadLookupPNG(name string, r io.Reader, channels int) (*LookupTexture, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	b := img.Bounds()
	t := &LookupTexture{Name: name, Width: b.Dx(), Height: b.Dy(), Channels: channels}
	t.Pixels = make([]byte, 0, t.Width*t.Height*channels)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px := [2]byte{c.R, c.G}
			t.Pixels = append(t.Pixels, px[:channels]...)
		}
	}
	return t, nil
}

// GenerateAreaTexture computes the orthogonal area table for unoffset (1x) sampling.
// Texel (cx*16 + sqrt(left), cy*16 + sqrt(right)) of a pattern's cell holds the coverage of the
// revectorized edge on each side of the edge line: red for the side the pixel is on, green for the other.
func GenerateAreaTexture() *LookupTexture {
	t := &LookupTexture{Name: "smaa area", Width: AreaTexSize, Height: AreaTexSize, Channels: 2}
	t.Pixels = make([]byte, AreaTexSize*AreaTexSize*2)
	for pattern, cell := range areaCells {
		for left := 0; left < areaCellSize; left++ {
			for right := 0; right < areaCellSize; right++ {
				a1, a2 := patternArea(pattern, float64(left*left), float64(right*right))
				x, y := cell[0]*areaCellSize+left, cell[1]*areaCellSize+right
				i := (y*AreaTexSize + x) * 2
				t.Pixels[i] = unorm8(a1)
				t.Pixels[i+1] = unorm8(a2)
			}
		}
	}
	return t
}

func unorm8(v float64) byte {
	return byte(math.Round(common.Clamp(v, 0, 1) * 255))
}

type point struct {
	x, y float64
}

// patternArea revectorizes an edge pattern of the given left and right lengths and returns the
// coverage of the pixel at the origin. Negative y is the pixel's side of the edge line.
func patternArea(pattern int, left, right float64) (float64, float64) {
	d := left + right + 1
	const o1, o2 = 0.5, -0.5

	switch pattern {
	case 1:
		if left <= right {
			return segmentArea(point{0, o2}, point{d / 2, 0}, left)
		}
	case 2:
		if left >= right {
			return segmentArea(point{d / 2, 0}, point{d, o2}, left)
		}
	case 3:
		a1, a2 := segmentArea(point{0, o2}, point{d / 2, 0}, left)
		b1, b2 := segmentArea(point{d / 2, 0}, point{d, o2}, left)
		return smoothArea(d, a1, a2, b1, b2)
	case 4:
		if left <= right {
			return segmentArea(point{0, o1}, point{d / 2, 0}, left)
		}
	case 6, 7, 14:
		return segmentArea(point{0, o1}, point{d, o2}, left)
	case 8:
		if left >= right {
			return segmentArea(point{d / 2, 0}, point{d, o1}, left)
		}
	case 9, 11, 13:
		return segmentArea(point{0, o2}, point{d, o1}, left)
	case 12:
		a1, a2 := segmentArea(point{0, o1}, point{d / 2, 0}, left)
		b1, b2 := segmentArea(point{d / 2, 0}, point{d, o1}, left)
		return smoothArea(d, a1, a2, b1, b2)
	}
	// Straight edges and edges crossed on both sides at one end are left alone.
	return 0, 0
}

// segmentArea returns the area between the edge line and the segment p1->p2 over the pixel column [x, x+1],
// split into the part on the pixel's side and the part on the far side.
func segmentArea(p1, p2 point, x float64) (float64, float64) {
	dx, dy := p2.x-p1.x, p2.y-p1.y
	x1, x2 := x, x+1
	if !((x1 >= p1.x && x1 < p2.x) || (x2 > p1.x && x2 <= p2.x)) {
		return 0, 0
	}
	y1 := p1.y + dy*(x1-p1.x)/dx
	y2 := p1.y + dy*(x2-p1.x)/dx

	if math.Signbit(y1) == math.Signbit(y2) || math.Abs(y1) < 1e-4 || math.Abs(y2) < 1e-4 {
		a := (y1 + y2) / 2
		if a < 0 {
			return -a, 0
		}
		return 0, a
	}

	// The segment crosses the edge line inside the column: two triangles, one per side.
	xc := -p1.y*dx/dy + p1.x
	_, frac := math.Modf(xc)
	var a1, a2 float64
	if xc > p1.x {
		a1 = y1 * frac / 2
	}
	if xc < p2.x {
		a2 = y2 * (1 - frac) / 2
	}
	a := -a2
	if math.Abs(a1) > math.Abs(a2) {
		a = a1
	}
	if a < 0 {
		return math.Abs(a1), math.Abs(a2)
	}
	return math.Abs(a2), math.Abs(a1)
}

// smoothArea rounds off short U shapes, which would otherwise be blended too aggressively.
func smoothArea(d, a1, a2, b1, b2 float64) (float64, float64) {
	p := common.Clamp(d/smoothMaxDistance, 0, 1)
	soft := func(v float64) float64 {
		return math.Sqrt(v*2) * 0.5
	}
	lerp := func(from, to float64) float64 {
		return from + (to-from)*p
	}
	return lerp(soft(a1), a1) + lerp(soft(b1), b1), lerp(soft(a2), a2) + lerp(soft(b2), b2)
}

// SearchCode packs a 2x2 block of edge bits the way a bilinear fetch between them would:
// index 0 and 1 are the far and near pixel of the neighbouring line, 2 and 3 the far and near pixel of
// the searched line. The result is in [0, 32] and unique per block.
func SearchCode(bits [4]bool) int {
	weights := [4]int{1, 3, 7, 21}
	code := 0
	for i, b := range bits {
		if b {
			code += weights[i]
		}
	}
	return code
}

// searchDeltaLeft returns how many pixels of the last block of a search toward -x still carry the edge.
func searchDeltaLeft(cross, line [4]bool) int {
	d := 0
	if line[3] {
		d++
	}
	if d == 1 && line[2] && !cross[1] && !cross[3] {
		d++
	}
	return d
}

// searchDeltaRight is searchDeltaLeft for a search toward +x, where the crossing edge of a pixel lies on its near side.
func searchDeltaRight(cross, line [4]bool) int {
	d := 0
	if line[3] && !cross[1] && !cross[3] {
		d++
	}
	if d == 1 && line[2] && !cross[0] && !cross[2] {
		d++
	}
	return d
}

// GenerateSearchTexture computes the search correction table. Texel (SearchCode(cross), SearchCode(line))
// of the left half holds the correction for leftward and upward searches, the right half for rightward
// and downward ones, in units of searchStepValue.
func GenerateSearchTexture() *LookupTexture {
	t := &LookupTexture{Name: "smaa search", Width: SearchTexWidth, Height: SearchTexHeight, Channels: 1}
	t.Pixels = make([]byte, SearchTexWidth*SearchTexHeight)
	for c := 0; c < 16; c++ {
		for l := 0; l < 16; l++ {
			cross, line := bitsOf(c), bitsOf(l)
			x, y := SearchCode(cross), SearchCode(line)
			t.Pixels[y*SearchTexWidth+x] = byte(searchStepValue * searchDeltaLeft(cross, line))
			t.Pixels[y*SearchTexWidth+searchHalfWidth+x] = byte(searchStepValue * searchDeltaRight(cross, line))
		}
	}
	return t
}

func bitsOf(v int) [4]bool {
	return [4]bool{v&1 != 0, v&2 != 0, v&4 != 0, v&8 != 0}
}
