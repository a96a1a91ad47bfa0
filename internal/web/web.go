package web

import (
	"embed"
	"html/template"
	"io/fs"
	"math/rand/v2"
	"net/http"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Images is the fixed set the members page picks from.
var Images = []string{"cat1.svg", "cat2.svg", "cat3.svg"}

var funcs = template.FuncMap{
	// pathEscape makes an email safe as a single path segment.
	"pathEscape": url.PathEscape,
}

func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// PickImage returns one of Images. A nil source uses the global generator.
func PickImage(r *rand.Rand) string {
	if r == nil {
		return Images[rand.IntN(len(Images))]
	}
	return Images[r.IntN(len(Images))]
}
