// Package web provides the HTTP server and web interface for docproject
package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docproject/docproject/internal/config"
	"github.com/docproject/docproject/internal/database"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database // ORM handle, held but not queried by any handler
	Router    *gin.Engine
	Config    *config.WebConfig
	StartTime time.Time // Set once in NewServer, used for the uptime log line

	templates      fs.FS
	httpServer     *http.Server
	trustedProxies []*net.IPNet
}

// defaultTrustedProxies are the networks whose X-Forwarded-* headers are honored
var defaultTrustedProxies = []string{"127.0.0.1/32", "::1/128", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

// routeMethods are answered on every page route; OPTIONS reports them in Allow
var routeMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig) *WebServer {
	switch {
	case webconfig.Debug:
		gin.SetMode(gin.DebugMode)
	case gin.Mode() != gin.TestMode:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.RedirectTrailingSlash = false // "/11/" is a 404, not a redirect to "/11"

	// Configure Gin to trust reverse proxy headers
	if err := router.SetTrustedProxies(defaultTrustedProxies); err != nil {
		log.Printf("[WEB]: Warning: Failed to set trusted proxies: %v", err)
	}

	server := &WebServer{
		DB:             db,
		Router:         router,
		Config:         webconfig,
		StartTime:      time.Now(),
		templates:      NewTemplateFS(webconfig.TemplateDir),
		trustedProxies: parseCIDRs(defaultTrustedProxies),
	}
	server.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(webconfig.ListenPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Use(server.ApacheLogFormat(), gin.Recovery())

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))

	// Add reverse proxy middleware for handling X-Forwarded headers
	router.Use(server.ReverseProxyMiddleware())

	if names, err := ListTemplates(server.templates); err != nil {
		log.Printf("[WEB]: Warning: Failed to list templates: %v", err)
	} else {
		log.Printf("[WEB]: Templates available: %s", strings.Join(names, ", "))
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	s.pageRoute("/", s.homePage)
	s.pageRoute("/11", s.testPage)
}

// pageRoute registers a page for GET and HEAD (net/http drops the HEAD body) plus OPTIONS
func (s *WebServer) pageRoute(path string, handler gin.HandlerFunc) {
	s.Router.GET(path, handler)
	s.Router.HEAD(path, handler)
	s.Router.OPTIONS(path, allowHandler)
}

func allowHandler(c *gin.Context) {
	c.Header("Allow", strings.Join(routeMethods, ", "))
	c.Status(http.StatusOK)
}

// Start starts the web server with SSL support if configured.
// It returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	addr := s.httpServer.Addr
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return config.ErrMissingCert
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server started by Start
func (s *WebServer) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	log.Printf("[WEB]: Server stopped after %s", time.Since(s.StartTime).Round(time.Second))
	return nil
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy.
// Headers from peers outside the trusted proxy networks are ignored.
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.isTrustedProxy(c.RemoteIP()) {
			c.Next()
			return
		}

		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

// isTrustedProxy reports whether the remote peer address is inside a trusted proxy network
func (s *WebServer) isTrustedProxy(remoteIP string) bool {
	ip := net.ParseIP(remoteIP)
	if ip == nil {
		return false
	}
	for _, network := range s.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCIDRs(cidrs []string) []*net.IPNet {
	networks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Printf("[WEB]: Warning: invalid trusted proxy network %q: %v", cidr, err)
			continue
		}
		networks = append(networks, network)
	}
	return networks
}

// ApacheLogFormat writes one access log line per request in Apache combined format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(apacheLogFormatter)
}

func apacheLogFormatter(param gin.LogFormatterParams) string {
	return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
		param.ClientIP,
		param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
		param.Method,
		param.Path,
		param.Request.Proto,
		param.StatusCode,
		param.BodySize,
		param.Request.Referer(),
		param.Request.UserAgent(),
	)
}
