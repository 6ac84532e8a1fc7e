// annotations.go defines the comment annotations understood by the WGSL pre-processor.
// An annotation is a single line comment of the form "//@fx:<kind> <args...>". Two kinds exist:
//
//	//@fx:include <struct>
//	    replaced by the registered WGSL source of <struct>
//	//@fx:group <group> <binding> <uniform|storage_read> <var> <struct>
//	    replaced by "@group(g) @binding(b) var<...> <var>: <Type>;" and recorded as a declaration
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

const annotationPrefix = "@fx:"

// AnnotationType identifies the kind of a parsed annotation.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered struct definition.
	AnnotationTypeInclude AnnotationType = "include"
	// AnnotationTypeGroup generates a resource declaration for a registered struct.
	AnnotationTypeGroup AnnotationType = "group"
)

// addressSpaces maps the annotation spelling of an address space to its WGSL var<> form.
var addressSpaces = map[string]string{
	"uniform":      "var<uniform>",
	"storage_read": "var<storage, read>",
}

// Annotation is one parsed annotation line.
type Annotation struct {
	Type AnnotationType
	// Struct is the registry name the annotation refers to.
	Struct string
	// Line is the 1-based source line.
	Line int

	// The remaining fields are only set for group annotations.
	Group        int
	Binding      int
	AddressSpace string
	VarName      string
}

// parseAnnotation returns nil, nil for lines that carry no annotation.
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, rest, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}
	args := strings.Fields(rest)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include takes exactly one struct name", lineNum)
		}
		if _, ok := LookupStruct(args[1]); !ok {
			return nil, fmt.Errorf("line %d: unknown struct %q (registered: %s)", lineNum, args[1], strings.Join(RegisteredStructs(), ", "))
		}
		return &Annotation{Type: AnnotationTypeInclude, Struct: args[1], Line: lineNum}, nil

	case AnnotationTypeGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: group takes <group> <binding> <address space> <var> <struct>", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group %q", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding %q", lineNum, args[2])
		}
		if _, ok := addressSpaces[args[3]]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		if _, ok := LookupStruct(args[5]); !ok {
			return nil, fmt.Errorf("line %d: unknown struct %q", lineNum, args[5])
		}
		return &Annotation{
			Type:         AnnotationTypeGroup,
			Struct:       args[5],
			Line:         lineNum,
			Group:        group,
			Binding:      binding,
			AddressSpace: args[3],
			VarName:      args[4],
		}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown annotation %q", lineNum, args[0])
	}
}
