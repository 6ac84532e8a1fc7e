package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RenderTarget is an offscreen color texture that can be rendered into and then sampled.
type RenderTarget struct {
	Label   string
	Width   int
	Height  int
	Format  wgpu.TextureFormat
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// Release frees the view and the texture. It is safe to call on a nil or released target.
func (t *RenderTarget) Release() {
	if t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}
