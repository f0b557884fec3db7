// Package server handles embedding and serving of the dashboard assets.
// Templates and stylesheets live in the root-level webui package,
// which can access the sibling web/ directory via go:embed.
package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vesaa/hostwatch/webui"
)

// dashboardTemplate is the name of the dashboard page inside the template set.
const dashboardTemplate = "index.html"

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"ms": func(v float64) string {
		if v < 0 {
			return "—"
		}
		return fmt.Sprintf("%.1f ms", v)
	},
}

// RegisterStaticFiles loads the embedded dashboard template and mounts
// web/static under /static.
func RegisterStaticFiles(r *gin.Engine) {
	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(webui.FS, "web/*.html"))
	r.SetHTMLTemplate(tmpl)

	staticFS, err := fs.Sub(webui.FS, "web/static")
	if err != nil {
		panic("embed: web/static sub-fs failed: " + err.Error())
	}
	r.StaticFS("/static", http.FS(staticFS))
}
