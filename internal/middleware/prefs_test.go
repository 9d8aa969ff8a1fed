package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefsProbe(t *testing.T, build func(r *http.Request)) (lang, theme string, res *http.Response) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if build != nil {
		build(r)
	}
	w := httptest.NewRecorder()
	Prefs(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		lang = LangFrom(r)
		theme = ThemeFrom(r)
	})).ServeHTTP(w, r)
	return lang, theme, w.Result()
}

func TestPrefsDefaults(t *testing.T) {
	lang, theme, _ := prefsProbe(t, nil)
	assert.Equal(t, "pt", lang)
	assert.Equal(t, "system", theme)
}

func TestPrefsQueryOverridesAndPersists(t *testing.T) {
	lang, _, res := prefsProbe(t, func(r *http.Request) {
		r.URL.RawQuery = "lang=en"
	})
	assert.Equal(t, "en", lang)

	var persisted bool
	for _, c := range res.Cookies() {
		if c.Name == "lang" && c.Value == "en" {
			persisted = true
		}
	}
	assert.True(t, persisted)
}

func TestPrefsCookieWins(t *testing.T) {
	lang, _, _ := prefsProbe(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
		r.Header.Set("Accept-Language", "pt-BR")
	})
	assert.Equal(t, "en", lang)
}

func TestPrefsHeaderFallback(t *testing.T) {
	lang, _, _ := prefsProbe(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	})
	assert.Equal(t, "en", lang)
}

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	Flash(w, r, "cotacao_criada")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	msg, ok := PopFlash(w2, r2)
	require.True(t, ok)
	assert.Equal(t, "Cotação criada com sucesso", msg)

	// PopFlash clears the cookie.
	var cleared bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestFlashUnknownCodePassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	Flash(w, r, "Cliente inativo")

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	msg, ok := PopFlash(httptest.NewRecorder(), r2)
	require.True(t, ok)
	assert.Equal(t, "Cliente inativo", msg)
}
