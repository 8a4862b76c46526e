// Package captive implements the captive-portal detection contract.
//
// Operating systems decide whether a network is "captive" by fetching
// well-known probe URLs and comparing the response byte for byte against
// what the vendor's servers return. This package owns that table: once a
// client has acknowledged the portal (marked by a cookie), probes receive
// the exact vendor responses so the OS treats the network as open; before
// that, probes are redirected to the portal page.
//
// The response bodies and status codes here are load-bearing. Changing a
// body by one byte makes the OS re-flag the network and reopen the portal.
package captive

import (
	"net/http"
	"strings"
)

const (
	// AckCookieName marks a client that has passed the portal page.
	AckCookieName = "piratebox_captive_ack"

	// AckCookieValue is the only value the ack cookie ever carries.
	AckCookieValue = "1"

	// AckCookieMaxAge keeps the acknowledgement for a week of seconds.
	AckCookieMaxAge = 7 * 24 * 60 * 60

	// PortalPath is where unacknowledged probe traffic is sent.
	PortalPath = "/captive"
)

// ProbeResponse is the canned reply for one vendor probe URL.
type ProbeResponse struct {
	Status      int
	ContentType string
	Body        string
	Location    string
}

const appleSuccessHTML = "<html><body>Success</body></html>"

// probeTable maps vendor probe paths to their expected responses.
// Android expects an empty 204; Apple expects a tiny Success page; Windows
// expects literal NCSI strings. Sourced from vendor connectivity checkers.
var probeTable = map[string]ProbeResponse{
	// Android / Chrome
	"/generate_204": {Status: http.StatusNoContent},
	"/gen_204":      {Status: http.StatusNoContent},

	// Apple (iOS, macOS)
	"/hotspot-detect.html":       {Status: http.StatusOK, ContentType: "text/html; charset=utf-8", Body: appleSuccessHTML},
	"/library/test/success.html": {Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: "Success"},
	"/success.html":              {Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: "Success"},
	"/success.txt":               {Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: "Success"},

	// Windows NCSI
	"/ncsi.txt":        {Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: "Microsoft NCSI"},
	"/connecttest.txt": {Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: "Microsoft Connect Test"},

	// Windows redirect probe: always go to the app root.
	"/redirect": {Status: http.StatusFound, Location: "/"},
}

// IsProbePath reports whether path is a known OS connectivity probe.
func IsProbePath(path string) bool {
	_, ok := probeTable[path]
	return ok
}

// Response returns the canned reply for a probe path. ok is false for
// paths outside the table.
func Response(path string) (ProbeResponse, bool) {
	pr, ok := probeTable[path]
	return pr, ok
}

// Acknowledged reports whether the request carries a valid ack cookie.
func Acknowledged(r *http.Request) bool {
	c, err := r.Cookie(AckCookieName)
	return err == nil && c.Value == AckCookieValue
}

// SafeNext validates a client-supplied post-acknowledgement redirect
// target. Only same-site absolute paths are allowed; anything else
// (including protocol-relative "//host" forms) falls back to "/".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
