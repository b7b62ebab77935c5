package hooks

import (
	"path/filepath"

	"github.com/allegro/lifecycle-executor/template"
)

// RenderPair binds the destination path of a compiled hook script to a
// rendering engine pre-loaded with its template. It is created once when a
// hook is loaded and never changes afterwards.
type RenderPair struct {
	// Path is the destination path of the compiled hook script.
	Path string
	// Renderer holds exactly one template registered under the hook file
	// name.
	Renderer template.Renderer
}

// NewRenderPair loads the template at templatePath and binds it to the
// compiled script destination at path.
func NewRenderPair(path, templatePath string) (RenderPair, error) {
	renderer := template.NewRenderer()
	if err := renderer.RegisterTemplateFile(filepath.Base(path), templatePath); err != nil {
		return RenderPair{}, err
	}
	return RenderPair{Path: path, Renderer: renderer}, nil
}
