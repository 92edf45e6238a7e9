package payments

import (
	"net/url"
	"strings"
)

// SessionIDPlaceholder is substituted by the provider when the session is
// created. It must reach the provider untouched.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

const (
	successPath = "/payment-success?session_id=" + SessionIDPlaceholder
	cancelPath  = "/payment-cancelled"
)

// ReturnURLs builds the success and cancel URLs for a hosted checkout that
// started on origin.
func ReturnURLs(origin string) (success, cancel string) {
	origin = strings.TrimRight(origin, "/")
	return origin + successPath, origin + cancelPath
}

// ResolveOrigin picks the browser origin for the return URLs: the Origin
// header, then the scheme and host of the Referer, then fallback. A candidate
// that is not in allowed is skipped, so buyers only ever return to the
// studio's own sites.
func ResolveOrigin(originHeader, referer, fallback string, allowed []string) string {
	if o := strings.TrimRight(strings.TrimSpace(originHeader), "/"); o != "" && o != "null" && originAllowed(o, allowed) {
		return o
	}
	if referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Scheme != "" && u.Host != "" {
			if o := u.Scheme + "://" + u.Host; originAllowed(o, allowed) {
				return o
			}
		}
	}
	return strings.TrimRight(fallback, "/")
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimRight(a, "/"), origin) {
			return true
		}
	}
	return false
}
