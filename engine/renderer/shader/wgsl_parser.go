package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the WGSL host-shareable size and alignment of a type.
type typeLayout struct {
	size, align uint64
}

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

type wgslField struct {
	name     string
	typeName string
	location int // -1 when the field has no @location
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []wgslField
}

var scalarLayouts = map[string]typeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4},
	"vec2f": {8, 8}, "vec2<f32>": {8, 8}, "vec2i": {8, 8}, "vec2u": {8, 8},
	"vec3f": {12, 16}, "vec3<f32>": {12, 16}, "vec3i": {12, 16}, "vec3u": {12, 16},
	"vec4f": {16, 16}, "vec4<f32>": {16, 16}, "vec4i": {16, 16}, "vec4u": {16, 16},
	"mat3x3f": {48, 16}, "mat3x3<f32>": {48, 16},
	"mat4x4f": {64, 16}, "mat4x4<f32>": {64, 16},
}

var vertexFormats = map[string]vertexFormat{
	"f32":   {wgpu.VertexFormatFloat32, 4},
	"vec2f": {wgpu.VertexFormatFloat32x2, 8}, "vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f": {wgpu.VertexFormatFloat32x3, 12}, "vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f": {wgpu.VertexFormatFloat32x4, 16}, "vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32": {wgpu.VertexFormatUint32, 4},
}

var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

var (
	structRe   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRe = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRe  = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRe    = regexp.MustCompile(`(\w+)\s*:\s*(.+)$`)
	resourceRe = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	entryRes   = map[ShaderType]*regexp.Regexp{
		ShaderTypeVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}
)

// stripComments removes block comments (nesting allowed) and line comments.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); i++ {
		if i+1 < len(src) {
			switch src[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				if depth > 0 {
					depth--
					i++
					continue
				}
			}
		}
		if depth == 0 {
			b.WriteByte(src[i])
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// splitTopLevel splits on commas that are not nested inside <...>.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '<':
			depth++
		case '>':
			depth = max(0, depth-1)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func parseStructs(src string) []wgslStruct {
	var out []wgslStruct
	for _, m := range structRe.FindAllStringSubmatch(src, -1) {
		st := wgslStruct{name: m[1]}
		for _, raw := range splitTopLevel(m[2]) {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			f := wgslField{location: -1, builtin: builtinRe.MatchString(raw)}
			if lm := locationRe.FindStringSubmatch(raw); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			// drop attributes so the name/type regex sees "name: type"
			bare := strings.TrimSpace(builtinRe.ReplaceAllString(locationRe.ReplaceAllString(raw, ""), ""))
			fm := fieldRe.FindStringSubmatch(bare)
			if fm == nil {
				continue
			}
			f.name, f.typeName = fm[1], strings.TrimSpace(fm[2])
			st.fields = append(st.fields, f)
		}
		out = append(out, st)
	}
	return out
}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

func layoutOf(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := scalarLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok {
		return typeLayout{}, false
	}
	parts := splitTopLevel(strings.TrimSuffix(inner, ">"))
	elem, ok := layoutOf(strings.TrimSpace(parts[0]), known)
	if !ok {
		return typeLayout{}, false
	}
	stride := alignUp(elem.size, elem.align)
	count := uint64(1)
	if len(parts) == 2 {
		n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return typeLayout{}, false
		}
		count = n
	}
	return typeLayout{stride * count, elem.align}, true
}

// structLayouts resolves sizes for every struct whose field types can be resolved, iterating until no progress
// is made so that nested structs may appear in any order.
func structLayouts(structs []wgslStruct) map[string]typeLayout {
	known := make(map[string]typeLayout, len(structs))
	pending := structs
	for len(pending) > 0 {
		var next []wgslStruct
		for _, st := range pending {
			var offset, align uint64 = 0, 1
			ok := true
			for _, f := range st.fields {
				if f.builtin {
					continue
				}
				fl, found := layoutOf(f.typeName, known)
				if !found {
					ok = false
					break
				}
				offset = alignUp(offset, fl.align) + fl.size
				align = max(align, fl.align)
			}
			if ok {
				known[st.name] = typeLayout{alignUp(offset, align), align}
			} else {
				next = append(next, st)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return known
}

// parseVertexLayouts builds one buffer layout per struct made only of @location fields, in source order.
// Attributes are tightly packed in declaration order.
func parseVertexLayouts(src string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, st := range parseStructs(stripComments(src)) {
		if !isVertexInput(st) {
			continue
		}
		var offset uint64
		attrs := make([]wgpu.VertexAttribute, 0, len(st.fields))
		valid := true
		for _, f := range st.fields {
			vf, ok := vertexFormats[f.typeName]
			if !ok {
				valid = false
				break
			}
			attrs = append(attrs, wgpu.VertexAttribute{Format: vf.format, Offset: offset, ShaderLocation: uint32(f.location)})
			offset += vf.size
		}
		if valid {
			layouts = append(layouts, wgpu.VertexBufferLayout{
				ArrayStride: offset,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attrs,
			})
		}
	}
	return layouts
}

func isVertexInput(st wgslStruct) bool {
	if len(st.fields) == 0 {
		return false
	}
	for _, f := range st.fields {
		if f.builtin || f.location < 0 {
			return false
		}
	}
	return true
}

// parseBindGroups reflects every @group/@binding declaration into layout descriptors keyed by group.
// It also returns the variable name of every binding.
func parseBindGroups(src string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	clean := stripComments(src)
	sizes := structLayouts(parseStructs(clean))

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	for _, m := range resourceRe.FindAllStringSubmatch(clean, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space, varName, typeName := strings.TrimSpace(m[3]), m[4], strings.TrimSpace(m[5])

		e := resourceEntry(uint32(binding), visibility, space, typeName)
		if e.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := layoutOf(typeName, sizes); ok {
				e.Buffer.MinBindingSize = l.size
			}
		}
		entries[group] = append(entries[group], e)
		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = varName
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, es := range entries {
		sort.Slice(es, func(i, j int) bool { return es[i].Binding < es[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: es}
	}
	return out, names
}

func resourceEntry(binding uint32, visibility wgpu.ShaderStage, space, typeName string) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	switch {
	case space == "uniform":
		e.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(space, "storage") && strings.Contains(space, "read_write"):
		e.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(space, "storage"):
		e.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case typeName == "sampler":
		e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_depth_"):
		e.Texture.SampleType = wgpu.TextureSampleTypeDepth
		e.Texture.ViewDimension = textureDimensions[typeName]
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		e.Texture.ViewDimension = textureDimensions[base]
		switch strings.TrimSuffix(strings.TrimSpace(param), ">") {
		case "i32":
			e.Texture.SampleType = wgpu.TextureSampleTypeSint
		case "u32":
			e.Texture.SampleType = wgpu.TextureSampleTypeUint
		default:
			e.Texture.SampleType = wgpu.TextureSampleTypeFloat
		}
	}
	return e
}

func parseEntryPoint(src string, t ShaderType) string {
	re, ok := entryRes[t]
	if !ok {
		return ""
	}
	if m := re.FindStringSubmatch(stripComments(src)); m != nil {
		return m[1]
	}
	return ""
}
