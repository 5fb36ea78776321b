// Package manifest reads the gapi-parser-input document that lists, per API
// output file, the native libraries and namespaces to scan and where their
// sources live.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

const RootTag = "gapi-parser-input"

var ErrInvalidManifest = errors.New("invalid manifest")

// Source element kinds accepted under a namespace.
const (
	KindDir       = "dir"
	KindFile      = "file"
	KindExclude   = "exclude"
	KindDirectory = "directory"
)

type Manifest struct {
	APIs []API
}

// API produces one output document.
type API struct {
	Filename  string
	Libraries []Library
}

// IntermediatePath is where the transformer accumulates output for every
// namespace of the API before it is reformatted into Filename.
func (a API) IntermediatePath() string {
	return a.Filename + ".pre"
}

type Library struct {
	Name       string
	Namespaces []Namespace
}

type Namespace struct {
	Name    string
	Sources []Source
}

// Source is one child element of a namespace, in document order. Kind is the
// element name and may be something other than the Kind* constants; callers
// decide what to do with those.
type Source struct {
	Kind string
	// Text is the element's character content: a directory for dir, a path
	// for file and exclude.
	Text string
	// Path and Excludes are only set for directory elements.
	Path     string
	Excludes []string
}

// Load reads and parses the manifest at path.
func Load(fsys afero.Fs, path string) (*Manifest, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document. Unknown elements above the namespace
// level are ignored.
func Parse(r io.Reader) (*Manifest, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidManifest)
	}
	if root.Tag != RootTag {
		return nil, fmt.Errorf("%w: improperly formatted input file, root element is <%s>", ErrInvalidManifest, root.Tag)
	}

	var m Manifest
	for _, apiElem := range root.SelectElements("api") {
		api := API{Filename: apiElem.SelectAttrValue("filename", "")}
		for _, libElem := range apiElem.SelectElements("library") {
			lib := Library{Name: libElem.SelectAttrValue("name", "")}
			for _, nsElem := range libElem.SelectElements("namespace") {
				lib.Namespaces = append(lib.Namespaces, parseNamespace(nsElem))
			}
			api.Libraries = append(api.Libraries, lib)
		}
		m.APIs = append(m.APIs, api)
	}

	return &m, nil
}

func parseNamespace(elem *etree.Element) Namespace {
	ns := Namespace{Name: elem.SelectAttrValue("name", "")}
	for _, child := range elem.ChildElements() {
		src := Source{Kind: child.Tag, Text: child.Text()}
		if child.Tag == KindDirectory {
			src.Text = ""
			src.Path = child.SelectAttrValue("path", "")
			for _, exc := range child.SelectElements(KindExclude) {
				src.Excludes = append(src.Excludes, exc.Text())
			}
		}
		ns.Sources = append(ns.Sources, src)
	}
	return ns
}

// String renders the source the way it appears in progress output.
func (s Source) String() string {
	switch s.Kind {
	case KindDirectory:
		if len(s.Excludes) == 0 {
			return fmt.Sprintf("<directory %s>", s.Path)
		}
		return fmt.Sprintf("<directory %s: excluding %s>", s.Path, strings.Join(s.Excludes, " "))
	default:
		return fmt.Sprintf("<%s %s>", s.Kind, s.Text)
	}
}
