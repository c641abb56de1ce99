package transport

import "net/http"

// ParseCookies parses the value of a Set-Cookie header. Missing or
// malformed input yields no cookies rather than an error; the caller
// only ever sees "no cookie found".
func ParseCookies(headerValue string) []*http.Cookie {
	if headerValue == "" {
		return nil
	}

	c, err := http.ParseSetCookie(headerValue)
	if err != nil {
		return nil
	}

	return []*http.Cookie{c}
}
