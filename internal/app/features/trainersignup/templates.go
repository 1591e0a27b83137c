// internal/app/features/trainersignup/templates.go
package trainersignup

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "trainersignup",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
