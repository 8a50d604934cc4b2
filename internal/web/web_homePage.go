package web

import (
	"github.com/gin-gonic/gin"
)

const (
	homeTemplate = "mainhome.html"
	testTemplate = "test.html"
)

// homePage handles "/"
func (s *WebServer) homePage(c *gin.Context) {
	s.renderTemplate(c, homeTemplate, nil)
}

// testPage handles "/11"
func (s *WebServer) testPage(c *gin.Context) {
	s.renderTemplate(c, testTemplate, nil)
}
