package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	domain "kamikaya-backend/internal/domain/application"
	"kamikaya-backend/pkg/money"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

var statusLabels = map[string]string{
	string(domain.StatusPending):     "Menunggu",
	string(domain.StatusUnderReview): "Sedang Ditinjau",
	string(domain.StatusApproved):    "Disetujui",
	string(domain.StatusRejected):    "Ditolak",
}

var statusColors = map[string]string{
	string(domain.StatusPending):     "bg-yellow-100 text-yellow-800",
	string(domain.StatusUnderReview): "bg-blue-100 text-blue-800",
	string(domain.StatusApproved):    "bg-green-100 text-green-800",
	string(domain.StatusRejected):    "bg-red-100 text-red-800",
}

// StatusLabel is the Indonesian display label; unknown values pass through.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func StatusColor(s string) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "bg-gray-100 text-gray-800"
}

var jakarta = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}()

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupiah":      money.Rupiah,
		"statusLabel": StatusLabel,
		"statusColor": StatusColor,
		"statuses":    func() []domain.Status { return domain.Statuses },
		"datetime": func(t time.Time) string {
			return t.In(jakarta).Format("02 Jan 2006 15:04")
		},
	}
}

// Renderer renders the embedded admin pages. Every page is parsed together
// with the shared layout and executed through it.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := template.New(path.Base(f)).Funcs(templateFuncs()).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[path.Base(f)] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
