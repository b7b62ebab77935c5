// Package template adapts a text templating engine to the rendering contract
// used when compiling hook scripts. The template syntax itself is not part of
// the supervisor - any engine satisfying Renderer can be plugged in.
package template

import (
	"bytes"
	"os"
	"text/template"

	"github.com/pkg/errors"
)

// Renderer is a rendering engine pre-loaded with named templates.
type Renderer interface {
	// RegisterTemplate parses source and stores it under name. Registering an
	// already known name replaces the previous template.
	RegisterTemplate(name, source string) error
	// RegisterTemplateFile reads the file at path and registers its content
	// under name.
	RegisterTemplateFile(name, path string) error
	// Render executes the template registered under name against ctx and
	// returns the rendered text.
	Render(name string, ctx interface{}) (string, error)
}

// NewRenderer returns a Renderer backed by the standard text/template engine.
// Missing keys in the rendering context are treated as errors.
func NewRenderer() Renderer {
	return &textRenderer{templates: map[string]*template.Template{}}
}

type textRenderer struct {
	templates map[string]*template.Template
}

func (r *textRenderer) RegisterTemplate(name, source string) error {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return errors.Wrapf(err, "unable to parse template %q", name)
	}
	r.templates[name] = tmpl
	return nil
}

func (r *textRenderer) RegisterTemplateFile(name, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to read template file %s", path)
	}
	return r.RegisterTemplate(name, string(source))
}

func (r *textRenderer) Render(name string, ctx interface{}) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", errors.Errorf("no template registered under %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", errors.Wrapf(err, "unable to render template %q", name)
	}
	return buf.String(), nil
}
