package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sync"
)

// ViewEngine renders html/template views from a filesystem, caching each
// parsed layout+view pair.
type ViewEngine struct {
	fsys  fs.FS
	ext   string
	funcs template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewViewEngine creates a ViewEngine.
// fsys holds the templates (e.g. an embed.FS), ext is the file extension (e.g. ".html").
func NewViewEngine(fsys fs.FS, ext string) *ViewEngine {
	return &ViewEngine{
		fsys:  fsys,
		ext:   ext,
		funcs: template.FuncMap{},
		cache: make(map[string]*template.Template),
	}
}

// Funcs registers template functions. Call before the first render.
func (ve *ViewEngine) Funcs(fm template.FuncMap) *ViewEngine {
	ve.mu.Lock()
	defer ve.mu.Unlock()
	for k, f := range fm {
		ve.funcs[k] = f
	}
	ve.cache = make(map[string]*template.Template)
	return ve
}

// Render executes layout with name as its content into a buffer.
// The layout must {{template "content" .}}.
func (ve *ViewEngine) Render(layout, name string, data any) ([]byte, error) {
	tmpl, err := ve.lookup(layout, name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(layout+ve.ext), data); err != nil {
		return nil, fmt.Errorf("view %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// ViewWithLayout renders a view inside a layout and writes it with status.
//
//	engine.ViewWithLayout(w, http.StatusOK, "layouts/app", "forms/show", data)
func (ve *ViewEngine) ViewWithLayout(w http.ResponseWriter, status int, layout, name string, data any) error {
	body, err := ve.Render(layout, name, data)
	if err != nil {
		http.Error(w, "Render error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

func (ve *ViewEngine) lookup(layout, name string) (*template.Template, error) {
	key := layout + "|" + name

	ve.mu.RLock()
	tmpl, ok := ve.cache[key]
	ve.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	ve.mu.Lock()
	defer ve.mu.Unlock()
	tmpl, err := template.New(path.Base(layout + ve.ext)).
		Funcs(ve.funcs).
		ParseFS(ve.fsys, layout+ve.ext, name+ve.ext)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", name, err)
	}
	ve.cache[key] = tmpl
	return tmpl, nil
}
