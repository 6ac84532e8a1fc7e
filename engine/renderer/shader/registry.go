package shader

import (
	"fmt"
	"sort"
	"sync"
)

// StructDef pairs the WGSL source of a shared struct with the type name it declares.
type StructDef struct {
	// Type is the WGSL type name emitted in generated declarations, e.g. "CameraUniform".
	Type string
	// Source is the WGSL struct definition injected by an include annotation.
	Source string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]StructDef{}
)

// RegisterStruct makes a GPU struct available to the include and group annotations under name.
// Packages that own a GPU type register it from init so that any shader compiled afterwards can reference it.
// Registering the same name twice with a different definition panics.
//
// Parameters:
//   - name: the annotation argument, e.g. "camera"
//   - typeName: the WGSL struct name declared by source
//   - source: the WGSL struct definition
func RegisterStruct(name, typeName, source string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	def := StructDef{Type: typeName, Source: source}
	if existing, ok := registry[name]; ok && existing != def {
		panic(fmt.Sprintf("shader: struct %q registered twice with different definitions", name))
	}
	registry[name] = def
}

// LookupStruct returns the definition registered under name.
func LookupStruct(name string) (StructDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[name]
	return def, ok
}

// RegisteredStructs lists every registered name in sorted order.
func RegisteredStructs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
