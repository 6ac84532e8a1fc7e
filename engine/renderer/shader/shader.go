package shader

import (
	"fmt"
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType is the pipeline stage a Shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota
	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// Shader is a pre-processed WGSL stage together with the resource layout reflected from its source.
// A single .wgsl file usually holds both entry points, so the same source is loaded once per stage.
type Shader interface {
	// Key returns the identifier the shader was created with.
	Key() string

	// Source returns the expanded WGSL.
	Source() string

	// Type returns the stage this shader is used for.
	Type() ShaderType

	// EntryPoint returns the first function tagged with the stage attribute, or "" if none.
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	Module() *wgpu.ShaderModuleDescriptor

	// BindGroupLayoutDescriptors returns the reflected layouts keyed by group index.
	// Every entry's visibility is this shader's stage.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: layouts keyed by group
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindingVarName returns the WGSL variable bound at group/binding, or "".
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//
	// Returns:
	//   - string: the variable name
	BindingVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts for a vertex stage, in slot order.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the group annotations expanded while pre-processing.
	Declarations() []Annotation
}

type shader struct {
	key          string
	source       string
	shaderType   ShaderType
	entryPoint   string
	module       *wgpu.ShaderModuleDescriptor
	layouts      map[int]wgpu.BindGroupLayoutDescriptor
	varNames     map[int]map[int]string
	vertexLayout []wgpu.VertexBufferLayout
	pp           PreProcessor
}

var _ Shader = &shader{}

// NewShader loads path from fsys and compiles it for the given stage.
//
// Parameters:
//   - key: identifier used for labels and errors
//   - shaderType: the stage
//   - fsys: the file system holding the source, usually an embed.FS
//   - path: location of the .wgsl file inside fsys
//
// Returns:
//   - Shader: the parsed shader
//   - error: a read, pre-processing or missing entry point error
func NewShader(key string, shaderType ShaderType, fsys fs.FS, path string) (Shader, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read %q: %w", key, path, err)
	}
	return NewShaderFromSource(key, shaderType, string(data))
}

// NewShaderFromSource compiles WGSL held in memory. See NewShader.
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		pp:         NewPreProcessor(),
	}

	expanded, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.source = expanded
	s.entryPoint = parseEntryPoint(expanded, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage %d", key, shaderType)
	}

	visibility := wgpu.ShaderStageVertex
	if shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	} else {
		s.vertexLayout = parseVertexLayouts(expanded)
	}
	s.layouts, s.varNames = parseBindGroups(expanded, visibility)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label:          key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: expanded},
	}
	return s, nil
}

// NewStagePair compiles one source file for both the vertex and the fragment stage.
func NewStagePair(key string, fsys fs.FS, path string) (vertex, fragment Shader, err error) {
	if vertex, err = NewShader(key+" vs", ShaderTypeVertex, fsys, path); err != nil {
		return nil, nil, err
	}
	if fragment, err = NewShader(key+" fs", ShaderTypeFragment, fsys, path); err != nil {
		return nil, nil, err
	}
	return vertex, fragment, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.layouts
}

func (s *shader) BindingVarName(group, binding int) string {
	return s.varNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayout
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
