// Package cookie выставляет и сбрасывает cookie с токеном сессии.
package cookie

import (
	"net/http"
	"time"
)

// Name имя cookie с токеном.
const Name = "token"

// Options параметры cookie, общие для всех ответов процесса.
type Options struct {
	// Secure включает Secure и SameSite=None; используется в production.
	Secure bool
	MaxAge time.Duration
}

// Set выставляет cookie с токеном.
func Set(w http.ResponseWriter, token string, opts Options) {
	http.SetCookie(w, build(token, int(opts.MaxAge.Seconds()), opts.Secure))
}

// Clear сбрасывает cookie с токеном.
func Clear(w http.ResponseWriter, opts Options) {
	c := build("", -1, opts.Secure)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func build(value string, maxAge int, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
