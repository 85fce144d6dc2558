// Package catalog holds the fixed set of feature types the generator knows how
// to scaffold. Each feature type maps to an ordered list of file templates whose
// path and content carry literal placeholder tokens.
//
// The catalog is built once at package initialization and never mutated.
// Callers receive copies, so the table is safe to read from any goroutine.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFeatureType is matched by every UnknownFeatureTypeError.
var ErrUnknownFeatureType = errors.New("unknown feature type")

// FileTemplate pairs a path pattern with a content pattern. Both may contain
// placeholder tokens; the catalog never substitutes them itself.
type FileTemplate struct {
	Path    string
	Content string
}

type FeatureType struct {
	Key         string
	Description string
	Files       []FileTemplate
}

// UnknownFeatureTypeError reports a lookup for a key that is not registered.
// Available lists every valid key in sorted order.
type UnknownFeatureTypeError struct {
	Type      string
	Available []string
}

func (e *UnknownFeatureTypeError) Error() string {
	return fmt.Sprintf("unknown feature type: %s (available: %s)", e.Type, strings.Join(e.Available, ", "))
}

func (e *UnknownFeatureTypeError) Is(target error) bool {
	return target == ErrUnknownFeatureType
}

var featureTypes = map[string]FeatureType{
	"api": {
		Key:         "api",
		Description: "Express route, controller, service and API test",
		Files: []FileTemplate{
			{Path: "src/routes/{name}.js", Content: mustReadTemplate("api", "routes")},
			{Path: "src/controllers/{name}Controller.js", Content: mustReadTemplate("api", "controller")},
			{Path: "src/services/{name}Service.js", Content: mustReadTemplate("api", "service")},
			{Path: "tests/{name}.test.js", Content: mustReadTemplate("api", "test")},
		},
	},
	"ui": {
		Key:         "ui",
		Description: "React component with styles, index and test",
		Files: []FileTemplate{
			{Path: "src/components/{Name}/{Name}.jsx", Content: mustReadTemplate("ui", "component")},
			{Path: "src/components/{Name}/{Name}.css", Content: mustReadTemplate("ui", "styles")},
			{Path: "src/components/{Name}/index.js", Content: mustReadTemplate("ui", "index")},
			{Path: "src/components/{Name}/{Name}.test.jsx", Content: mustReadTemplate("ui", "component_test")},
		},
	},
	"rest": {
		Key:         "rest",
		Description: "Authenticated, validated routes and a paginated controller",
		Files: []FileTemplate{
			{Path: "src/routes/{name}.js", Content: mustReadTemplate("rest", "routes")},
			{Path: "src/controllers/{name}Controller.js", Content: mustReadTemplate("rest", "controller")},
		},
	},
}

// Lookup returns the definition registered under key. The returned Files slice
// is a copy.
func Lookup(key string) (FeatureType, error) {
	ft, ok := featureTypes[key]
	if !ok {
		return FeatureType{}, &UnknownFeatureTypeError{Type: key, Available: Types()}
	}
	files := make([]FileTemplate, len(ft.Files))
	copy(files, ft.Files)
	ft.Files = files
	return ft, nil
}

func Exists(key string) bool {
	_, ok := featureTypes[key]
	return ok
}

// Types returns the registered keys in sorted order.
func Types() []string {
	keys := make([]string, 0, len(featureTypes))
	for key := range featureTypes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// All returns every registered feature type ordered by key.
func All() []FeatureType {
	types := Types()
	all := make([]FeatureType, 0, len(types))
	for _, key := range types {
		ft, _ := Lookup(key)
		all = append(all, ft)
	}
	return all
}
