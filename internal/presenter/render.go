package presenter

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/Dan9191/emi-tracker/internal/notify"
)

//go:embed templates/*.html
var templates embed.FS

var tmpl = template.Must(template.ParseFS(templates, "templates/*.html"))

// Dialog is the pending confirmation shown over the page.
type Dialog struct {
	Message string
}

// Page is everything the page template needs besides the rendered view.
type Page struct {
	View    template.HTML
	Mode    ViewMode
	Form    models.LoanInput
	Editing bool
	MinDate string
	Dialog  *Dialog
	Notices []notify.Notice
}

// SubmitLabel is the label of the form button.
func (p Page) SubmitLabel() string {
	if p.Editing {
		return "Update"
	}
	return "Add"
}

// ToggleLabel names the mode the toggle button switches to.
func (p Page) ToggleLabel() string { return p.Mode.Toggle().String() }

// AutoRefresh is off while the user is editing or confirming, so a reload
// never discards their input.
func (p Page) AutoRefresh() bool { return !p.Editing && p.Dialog == nil }

// RenderView renders the projection as a table or as cards, according to its
// view mode.
func RenderView(p Projection) (template.HTML, error) {
	name := "table"
	if p.mode == SmartView {
		name = "cards"
	}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, p); err != nil {
		return "", fmt.Errorf("failed to render %s view: %w", name, err)
	}
	return template.HTML(b.String()), nil
}

// RenderPage writes the full HTML page.
func RenderPage(w io.Writer, page Page) error {
	if err := tmpl.ExecuteTemplate(w, "page", page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
