// Captive portal HTTP handlers.
//
// This file wires the captive-portal contract into Gin:
//   - GET  /captive       (splash page shown to new clients)
//   - POST /captive/ack   (acknowledge: set cookie, redirect onward)
//   - Probe fallback      (mounted on NoRoute: answers OS connectivity
//     probes and serves plain 404s for everything else)
//
// Probe handling depends on acknowledgement state: before the ack cookie is
// set, probes are redirected to the splash page, which is what makes phones
// pop their "sign in to network" sheet; after acknowledgement, probes get
// the exact vendor responses so the sheet never reappears.
package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbox-dev/piratebox/internal/captive"
	"github.com/lanbox-dev/piratebox/internal/http/middleware"
)

// CaptiveHandlers serves the splash page and the probe table.
type CaptiveHandlers struct {
	appName string
}

// NewCaptiveHandlers constructs CaptiveHandlers. appName is displayed on
// the splash page.
func NewCaptiveHandlers(appName string) *CaptiveHandlers {
	return &CaptiveHandlers{appName: appName}
}

// splashTmpl is the whole frontend of the portal page. It is intentionally
// self-contained: no external assets, works on the oldest phone browser that
// can open a captive sheet.
var splashTmpl = template.Must(template.New("splash").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}}</title>
<style>
body { font-family: sans-serif; max-width: 32em; margin: 3em auto; padding: 0 1em; }
a.button { display: inline-block; padding: .6em 1.2em; border: 2px solid #000; text-decoration: none; color: #000; }
</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<p>Welcome aboard. This box has no internet: everything you share stays here,
and everything here was shared by someone nearby.</p>
<p><a class="button" href="/captive/ack?next=%2F">Enter</a></p>
</body>
</html>
`))

// homeTmpl is the minimal landing page behind the portal. The real frontend
// is served separately; this page exists so the splash's Enter button and
// the Windows /redirect probe land somewhere sensible.
var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}}</title>
<style>body { font-family: sans-serif; max-width: 32em; margin: 3em auto; padding: 0 1em; }</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<ul>
<li><a href="/api/files">Files</a></li>
<li><a href="/api/chat/messages">Chat</a></li>
<li><a href="/api/forum/threads">Forum</a></li>
</ul>
</body>
</html>
`))

// Home renders the landing page.
func (h *CaptiveHandlers) Home(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := homeTmpl.Execute(c.Writer, gin.H{"AppName": h.appName}); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("home render failed")
	}
}

// Splash renders the portal page.
func (h *CaptiveHandlers) Splash(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := splashTmpl.Execute(c.Writer, gin.H{"AppName": h.appName}); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("splash render failed")
	}
}

// Ack marks the client as having passed the portal. It sets the ack cookie
// and redirects to the validated ?next target (same-site paths only).
func (h *CaptiveHandlers) Ack(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		captive.AckCookieName,
		captive.AckCookieValue,
		captive.AckCookieMaxAge,
		"/",   // path
		"",    // domain: host-only
		false, // secure: plain HTTP appliance
		true,  // httpOnly
	)
	c.Redirect(http.StatusFound, captive.SafeNext(c.Query("next")))
}

// Fallback handles every request no explicit route matched. Probe paths get
// the captive treatment; everything else is a plain-text 404, matching what
// probe clients expect from an unremarkable web server.
func (h *CaptiveHandlers) Fallback(c *gin.Context) {
	path := c.Request.URL.Path

	pr, isProbe := captive.Response(path)
	if !isProbe {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	acked := captive.Acknowledged(c.Request)
	middleware.RecordCaptiveProbe(acked)

	if !acked {
		c.Redirect(http.StatusFound, captive.PortalPath)
		return
	}

	if pr.Location != "" {
		c.Redirect(pr.Status, pr.Location)
		return
	}
	if pr.ContentType != "" {
		c.Data(pr.Status, pr.ContentType, []byte(pr.Body))
		return
	}
	c.Status(pr.Status)
}
