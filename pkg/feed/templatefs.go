package feed

import (
	"io/fs"
	"os"

	"github.com/lepinkainen/blog-feed/templates"
)

var (
	// templateOverrideFS points at the site-provided filesystem (usually the local templates directory).
	templateOverrideFS fs.FS = os.DirFS("templates")
	// templateFallbackFS is the embedded filesystem baked into the binary.
	templateFallbackFS fs.FS = templates.EmbeddedTemplates
)

// SetTemplateOverrideFS switches the primary filesystem used when loading templates.
func SetTemplateOverrideFS(f fs.FS) {
	templateOverrideFS = f
}

// readTemplate returns the template source from the override filesystem, falling back to the embedded one
func readTemplate(file string) ([]byte, string, error) {
	if templateOverrideFS != nil {
		if data, err := fs.ReadFile(templateOverrideFS, file); err == nil {
			return data, "override", nil
		}
	}

	data, err := fs.ReadFile(templateFallbackFS, file)
	if err != nil {
		return nil, "", err
	}
	return data, "embedded", nil
}
