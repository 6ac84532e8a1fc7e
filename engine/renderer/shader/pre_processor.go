package shader

import (
	"fmt"
	"strings"
)

// PreProcessor expands annotations in raw WGSL source.
type PreProcessor interface {
	// Process replaces every annotation line with its generated WGSL.
	// Each struct is included at most once per source even when several annotations ask for it.
	//
	// Parameters:
	//   - source: raw WGSL containing annotations
	//
	// Returns:
	//   - string: the expanded WGSL
	//   - error: the first malformed or unknown annotation
	Process(source string) (string, error)

	// Declarations returns the group annotations seen by the last Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

type preProcessor struct {
	declarations []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor backed by the global struct registry.
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		def, _ := LookupStruct(a.Struct)
		switch a.Type {
		case AnnotationTypeInclude:
			if included[a.Struct] {
				continue
			}
			included[a.Struct] = true
			out = append(out, strings.TrimRight(def.Source, "\n"))
		case AnnotationTypeGroup:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", a.Group, a.Binding, addressSpaces[a.AddressSpace], a.VarName, def.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
