// Package pkgloader declares the contract the core VM expects from the
// archive-format package loader named in spec.md §1/§6. The loader
// itself — reading a ZIP-style container with a manifest, a class
// directory of per-function bytecode blobs, a native-library directory,
// and a resources directory — is an external collaborator and
// explicitly out of scope; only the interface the core consumes is
// defined here, grounded on spec.md §6's manifest key list.
package pkgloader

import "github.com/ayushashi11/ionvm/internal/value"

// Manifest mirrors META-INF/MANIFEST's key set (spec.md §6). IonPackVersion,
// Name, and Version are required by the format; the rest are optional.
type Manifest struct {
	IonPackVersion string
	Name           string
	Version        string

	MainClass   string
	EntryPoint  string
	Description string
	Author      string

	Dependencies []string
	FFILibraries []string
	Exports      []string
}

// PackageLoader is what the core consumes from a loaded package: its
// manifest, and on-demand resolution of a named class to the function
// it defines. A class directory entry is one bytecode-encoded function
// per spec.md §6 ("classes/<Name>.ionc, each a single-function bytecode
// file"), so LoadClass returns exactly one *value.Function.
type PackageLoader interface {
	Manifest() Manifest
	LoadClass(name string) (*value.Function, error)
}
