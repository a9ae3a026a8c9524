package mcp

import (
	"github.com/gorewood/griffe-quarto/internal/loader"
	"github.com/gorewood/griffe-quarto/internal/project"
)

// newEnvironment assembles a fresh environment for one tool call.
func newEnvironment(cfg Config, dir string) (*loader.Environment, error) {
	return loader.NewEnvironment(loader.Options{
		StartDir: dir,
		UserDir:  cfg.UserDir,
		Logger:   cfg.Logger,
	})
}

// findConfig searches from dir, or the working directory when dir is empty.
func findConfig(dir string) (string, bool, error) {
	if dir == "" {
		return project.FindConfig()
	}
	return project.FindConfigFrom(dir)
}

// describeSources converts the chain into tool output.
func describeSources(env *loader.Environment) []SourceInfo {
	sources := env.Sources()
	infos := make([]SourceInfo, 0, len(sources))
	for _, src := range sources {
		info := SourceInfo{Name: src.Name()}
		if dirSrc, ok := src.(*loader.DirSource); ok {
			info.Dir = dirSrc.Root()
		}
		infos = append(infos, info)
	}
	return infos
}
