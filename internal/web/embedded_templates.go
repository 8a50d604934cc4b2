package web

import (
	"embed"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
)

//go:embed templates/*.html
var embeddedTemplatesFS embed.FS

// NewTemplateFS returns the template directory on disk when dir exists,
// otherwise the templates embedded in the binary
func NewTemplateFS(dir string) fs.FS {
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			log.Printf("[WEB]: Using templates from disk: %s", dir)
			return os.DirFS(dir)
		}
		log.Printf("[WEB]: Template dir %s not found, using embedded templates", dir)
	}

	sub, err := fs.Sub(embeddedTemplatesFS, "templates")
	if err != nil {
		panic("Failed to create embedded template filesystem: " + err.Error())
	}
	return sub
}

// ListTemplates returns the names of all .html templates in fsys, sorted
func ListTemplates(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".html" {
			files = append(files, p)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
