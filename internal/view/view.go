package view

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lucashb/cotador/internal/i18n"
	"github.com/lucashb/cotador/internal/middleware"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the standard func map: i18n, money formatting, and status
// labels.
func Funcs(r *http.Request) template.FuncMap {
	lang := middleware.LangFrom(r)
	theme := middleware.ThemeFrom(r)
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"lang":  func() string { return lang },
		"theme": func() string { return theme },
		"money": func(v float64) string { return fmt.Sprintf("R$ %.2f", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%g%%", v) },
		"statusLabel": func(status string) string {
			return i18n.StatusLabel(lang, status)
		},
		"date": func(v any) string {
			var ts time.Time
			switch t := v.(type) {
			case time.Time:
				ts = t
			case *time.Time:
				if t != nil {
					ts = *t
				}
			}
			if ts.IsZero() {
				return "-"
			}
			return ts.Format("02/01/2006 15:04")
		},
		"year": func() int { return time.Now().Year() },
	}
}

// Render parses and executes a template file wrapped in the shared layout.
// name is the filename (e.g. "cotacoes.html"). Templates are cached per
// name; set DEV=1 to reparse on every request.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}
	files := []string{
		filepath.Join(baseDir, "layout.html"),
		filepath.Join(baseDir, name),
	}
	if fi, err := os.Stat(filepath.Join(baseDir, "partials", "header.html")); err == nil && !fi.IsDir() {
		files = append(files, filepath.Join(baseDir, "partials", "header.html"))
	}
	t, err := template.New("layout.html").Funcs(Funcs(r)).ParseFiles(files...)
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t.Execute(w, data)
}
