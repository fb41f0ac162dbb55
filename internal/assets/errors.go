// Package assets loads binary 3D-scene assets into scene graphs and
// serializes edited graphs back out. The interchange format is glTF 2.0
// (binary or JSON), decoded and encoded with qmuntal/gltf.
package assets

import "fmt"

// LoadError reports an asset fetch or parse failure. The viewer keeps
// whatever was previously loaded; a failed load never tears the session down.
type LoadError struct {
	Ref string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExportError reports a serialization failure. The live scene is unaffected.
type ExportError struct {
	Name string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Name, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
