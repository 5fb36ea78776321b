package driver

import (
	"github.com/gapi-tools/gapi/manifest"
	"github.com/gapi-tools/gapi/sourceset"
)

type PlannedNamespace struct {
	Library string
	Set     sourceset.Set
	// Invalid lists source elements that would be skipped.
	Invalid error
}

type PlannedAPI struct {
	Filename     string
	Intermediate string
	Namespaces   []PlannedNamespace
}

// Plan resolves every namespace's source set without starting anything.
func (d *Driver) Plan(path string) ([]PlannedAPI, error) {
	m, err := manifest.Load(d.fs, path)
	if err != nil {
		return nil, err
	}

	var plan []PlannedAPI
	for _, api := range m.APIs {
		p := PlannedAPI{Filename: api.Filename, Intermediate: api.IntermediatePath()}
		for _, lib := range api.Libraries {
			for _, ns := range lib.Namespaces {
				set, err := sourceset.Build(d.fs, ns)
				p.Namespaces = append(p.Namespaces, PlannedNamespace{Library: lib.Name, Set: set, Invalid: err})
			}
		}
		plan = append(plan, p)
	}
	return plan, nil
}
