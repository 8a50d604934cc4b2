package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// renderTemplate parses templateName from the template source and writes it with status 200.
// Output is buffered: a failing template yields 500 and never a partial page.
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// parsed per request, disk edits apply without restart
	tmpl, err := template.ParseFS(s.templates, templateName)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderError logs the failure and writes the plain status text
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[WEB]: Error %d on %s %s: %s - %s", statusCode, c.Request.Method, c.Request.URL.Path, message, errstring)
	c.String(statusCode, http.StatusText(statusCode))
}
