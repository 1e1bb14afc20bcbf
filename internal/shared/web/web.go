package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/andrasnagy-data/langdetect/internal/components/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageLogin    = "login"
	PageRegister = "register"
	PageDetect   = "detect"

	KindSuccess = "success"
	KindError   = "error"
	KindWarning = "warning"
	KindInfo    = "info"
)

type (
	Message struct {
		Kind string
		Text string
	}

	// Page is everything a full page render needs. Every view is rebuilt from
	// the session on every request.
	Page struct {
		Title    string
		Session  session.View
		Messages []Message
		Form     map[string]string
		Result   string
	}

	Renderer struct {
		pages map[string]*template.Template
	}
)

// NewRenderer parses each page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{PageLogin, PageRegister, PageDetect} {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// NewPage builds page data from the session, consuming its pending flash.
func NewPage(title string, sess *session.Session) Page {
	p := Page{Title: title, Form: map[string]string{}}
	if sess == nil {
		return p
	}
	p.Session = sess.View()
	if f := sess.PopFlash(); f != nil {
		p.Messages = append(p.Messages, Message{Kind: f.Kind, Text: f.Text})
	}
	return p
}

func (p *Page) Add(kind, text string) {
	p.Messages = append(p.Messages, Message{Kind: kind, Text: text})
}

// Render executes the page into a buffer first so a template error never
// produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return fs.ErrNotExist
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
