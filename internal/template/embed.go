package template

import (
	"embed"
	"io/fs"
)

//go:embed all:files
var embedded embed.FS

// Embedded returns the built-in templates, hook scripts and catalog, rooted at
// the files directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return sub
}
