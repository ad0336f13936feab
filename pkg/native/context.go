// SPDX-License-Identifier: MPL-2.0

package native

import (
	"archive/zip"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// ErrSymbolNotFound is the sentinel wrapped by SymbolNotFoundError.
var ErrSymbolNotFound = errors.New("native symbol not found")

const classSuffix = ".class"

// Unit kinds.
const (
	KindClass UnitKind = iota
	KindLibrary
	KindProvider
)

type (
	// UnitKind tells how a symbol became known to a Context.
	UnitKind int

	// Unit is a loadable symbol and the artifact that provides it.
	Unit struct {
		Symbol   string
		Kind     UnitKind
		Package  string
		Artifact string
	}

	// Entrypoint is the pair of declared entry points of one package.
	Entrypoint struct {
		Package  string
		Library  string
		Provider string
		Artifact string
	}

	// Context is the combined, read-only view over every staged artifact of
	// a run.
	Context struct {
		units       map[string]Unit
		entrypoints []Entrypoint
		artifacts   []string
	}

	// SymbolNotFoundError is returned by Context.Resolve for unknown symbols.
	SymbolNotFoundError struct {
		Symbol string
	}
)

// String returns the kind name.
func (k UnitKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindLibrary:
		return "library"
	case KindProvider:
		return "provider"
	default:
		return fmt.Sprintf("UnitKind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("native symbol %q not found", e.Symbol)
}

// Unwrap returns ErrSymbolNotFound and qlerr.ErrNotFound.
func (e *SymbolNotFoundError) Unwrap() []error {
	return []error{ErrSymbolNotFound, qlerr.ErrNotFound}
}

// Build constructs a Context from artifacts. An empty list yields an empty,
// valid Context.
//
// Declared entry points are indexed before any class entry, so they resolve
// to their declaring artifact whatever the staging order. For class entries
// provided by several artifacts the first artifact in the list wins.
func Build(artifacts []Artifact) (*Context, error) {
	c := &Context{units: make(map[string]Unit)}

	for _, a := range artifacts {
		c.artifacts = append(c.artifacts, a.Path)
		if a.Library == "" && a.Provider == "" {
			continue
		}
		c.entrypoints = append(c.entrypoints, Entrypoint{
			Package:  a.Package,
			Library:  a.Library,
			Provider: a.Provider,
			Artifact: a.Path,
		})
		c.define(a.Library, KindLibrary, a)
		c.define(a.Provider, KindProvider, a)
	}

	for _, a := range artifacts {
		classes, err := listClasses(a.Path)
		if err != nil {
			return nil, err
		}
		for _, class := range classes {
			c.define(class, KindClass, a)
		}
	}
	return c, nil
}

func (c *Context) define(symbol string, kind UnitKind, a Artifact) {
	if symbol == "" {
		return
	}
	if _, exists := c.units[symbol]; exists {
		return
	}
	c.units[symbol] = Unit{Symbol: symbol, Kind: kind, Package: a.Package, Artifact: a.Path}
}

// Resolve returns the unit providing symbol, a dotted class name such as
// "dev.qilletni.lib.std.StringFunctions".
func (c *Context) Resolve(symbol string) (Unit, error) {
	u, ok := c.units[symbol]
	if !ok {
		return Unit{}, &SymbolNotFoundError{Symbol: symbol}
	}
	return u, nil
}

// Entrypoints returns the declared entry points in artifact order.
func (c *Context) Entrypoints() []Entrypoint {
	return slices.Clone(c.entrypoints)
}

// Artifacts returns the paths of every artifact in the context.
func (c *Context) Artifacts() []string {
	return slices.Clone(c.artifacts)
}

// Len returns the number of resolvable symbols.
func (c *Context) Len() int { return len(c.units) }

// listClasses returns the dotted names of the class entries in a zip-based
// artifact, e.g. "a/b/C.class" → "a.b.C". Metadata directories and module
// descriptors are skipped.
func listClasses(path string) (classes []string, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, qlerr.IO("open native artifact", path, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close native artifact", path, closeErr)
		}
	}()

	for _, f := range zr.File {
		name := f.Name
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, classSuffix) {
			continue
		}
		if strings.HasPrefix(name, "META-INF/") || strings.HasSuffix(name, "module-info.class") || strings.HasSuffix(name, "package-info.class") {
			continue
		}
		classes = append(classes, strings.ReplaceAll(strings.TrimSuffix(name, classSuffix), "/", "."))
	}
	return classes, nil
}
