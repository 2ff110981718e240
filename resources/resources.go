// Package resources embeds the HTML views and static assets.
package resources

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/km-arc/go-forms/framework/http/validation"
)

//go:embed views static
var files embed.FS

// Views returns the template tree rooted at views/.
func Views() fs.FS { return sub("views") }

// Static returns the asset tree rooted at static/.
func Static() fs.FS { return sub("static") }

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		panic(err) // dir is embedded above
	}
	return fsys
}

// Funcs are the helpers the form views rely on.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"str": validation.String,
		"truthy": func(v any) bool {
			b, _ := v.(bool)
			return b
		},
		"checked": func(v any, option string) bool {
			group, _ := v.(map[string]bool)
			return group[option]
		},
		"inputType": func(kind any) string {
			switch fmt.Sprint(kind) {
			case "email":
				return "email"
			case "number":
				return "number"
			case "datetime":
				return "datetime-local"
			}
			return "text"
		},
	}
}
