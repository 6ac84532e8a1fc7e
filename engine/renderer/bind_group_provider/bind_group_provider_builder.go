package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a provider during NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer pre-assigns an existing buffer to binding. The provider takes ownership of it.
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithBorrowedTextureView references a view owned elsewhere at binding.
func WithBorrowedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
		p.borrowed[binding] = true
	}
}
