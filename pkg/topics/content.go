package topics

import (
	"embed"
	"io/fs"
)

//go:embed content/*.md
var content embed.FS

// Builtin returns the help topics shipped with gfv.
func Builtin() fs.FS {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		panic(err)
	}
	return sub
}
