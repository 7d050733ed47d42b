package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page is everything the shell needs to render one session.
type Page struct {
	Banner string
	Form   Form
	State  store.State
}

// FieldView is the data of one field-with-errors.
type FieldView struct {
	Field service.Field
	Value string
	Error string
}

func (p Page) Fields() []FieldView {
	views := make([]FieldView, 0, len(service.Fields))
	for _, f := range service.Fields {
		views = append(views, p.Field(f))
	}

	return views
}

func (p Page) Field(f service.Field) FieldView {
	return FieldView{
		Field: f,
		Value: p.Form.Get(f),
		Error: p.State.Errors.For(f),
	}
}

// BaseError is the page-level error, if any.
func (p Page) BaseError() string {
	return p.State.Errors.Base()
}

// Render writes the whole page. Nothing is written if the template fails.
func Render(w io.Writer, page Page) error {
	var buf bytes.Buffer

	if err := templates.ExecuteTemplate(&buf, "shell", page); err != nil {
		return errors.Wrap(err, "failed to render page")
	}

	_, err := buf.WriteTo(w)
	return err
}
