package loader

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var builtinFS embed.FS

// Builtin returns the templates shipped inside the binary.
func Builtin() *FSSource {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return NewFSSource(SourceBuiltin, sub)
}
