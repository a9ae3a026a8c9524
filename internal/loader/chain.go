package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// Chain is an ordered list of sources. Earlier sources take precedence.
type Chain []Source

// Lookup returns the template from the first source that has it.
func (c Chain) Lookup(name string) ([]byte, Source, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	for _, src := range c {
		data, err := src.ReadTemplate(name)
		if err == nil {
			return data, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
	}
	return nil, nil, &NotFoundError{Name: name, Sources: c.names()}
}

// TemplateInfo describes one template visible through a chain.
type TemplateInfo struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Shadows []string `json:"shadows,omitempty"`
}

// List returns every template reachable through the chain, sorted by name.
// Each name appears once with the source that wins; lower-precedence sources
// defining the same name are listed in Shadows.
func (c Chain) List() ([]TemplateInfo, error) {
	index := make(map[string]int)
	var infos []TemplateInfo

	for _, src := range c {
		names, err := src.ListTemplates()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if i, seen := index[name]; seen {
				infos[i].Shadows = append(infos[i].Shadows, src.Name())
				continue
			}
			index[name] = len(infos)
			infos = append(infos, TemplateInfo{Name: name, Source: src.Name()})
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (c Chain) names() []string {
	names := make([]string, 0, len(c))
	for _, src := range c {
		names = append(names, src.Name())
	}
	return names
}
