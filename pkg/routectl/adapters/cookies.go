package adapters

import (
	"net/http"

	"github.com/toyz/routectl/pkg/routectl"
)

func fromHTTPCookie(c *http.Cookie) routectl.Cookie {
	return routectl.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: fromHTTPSameSite(c.SameSite),
	}
}

func toHTTPCookie(c routectl.Cookie) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: toHTTPSameSite(c.SameSite),
	}
}

func fromHTTPCookies(cookies []*http.Cookie) []routectl.Cookie {
	result := make([]routectl.Cookie, len(cookies))
	for i, c := range cookies {
		result[i] = fromHTTPCookie(c)
	}
	return result
}

func fromHTTPSameSite(mode http.SameSite) routectl.SameSiteMode {
	switch mode {
	case http.SameSiteLaxMode:
		return routectl.SameSiteLaxMode
	case http.SameSiteStrictMode:
		return routectl.SameSiteStrictMode
	case http.SameSiteNoneMode:
		return routectl.SameSiteNoneMode
	default:
		return routectl.SameSiteDefaultMode
	}
}

func toHTTPSameSite(mode routectl.SameSiteMode) http.SameSite {
	switch mode {
	case routectl.SameSiteLaxMode:
		return http.SameSiteLaxMode
	case routectl.SameSiteStrictMode:
		return http.SameSiteStrictMode
	case routectl.SameSiteNoneMode:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
