package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/config"
)

// Cookie names carrying the two tokens.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Cookies writes the token carriers. Both are HttpOnly and SameSite=Strict;
// Secure is set in production.
type Cookies struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

func NewCookies(cfg *config.Config) Cookies {
	return Cookies{
		Secure:        cfg.Production(),
		AccessMaxAge:  cfg.JWTExpiry,
		RefreshMaxAge: cfg.RefreshTokenTTL,
	}
}

func (c Cookies) SetAccess(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, token, int(c.AccessMaxAge/time.Second)))
}

func (c Cookies) SetRefresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(RefreshTokenCookie, token, int(c.RefreshMaxAge/time.Second)))
}

// Clear expires both cookies on the client.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, "", -1))
}

func (c Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// CredentialsFrom collects the tokens presented with r. The access token
// cookie wins over an Authorization: Bearer header.
func CredentialsFrom(r *http.Request) session.Credentials {
	c := session.Credentials{
		AccessToken:  cookieValue(r, AccessTokenCookie),
		RefreshToken: cookieValue(r, RefreshTokenCookie),
	}
	if c.AccessToken == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			c.AccessToken = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	return c
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
