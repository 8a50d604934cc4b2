// Web server for docproject
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"gorm.io/gorm/logger"

	"github.com/docproject/docproject/internal/config"
	"github.com/docproject/docproject/internal/database"
	"github.com/docproject/docproject/internal/web"
)

const shutdownTimeout = 10 * time.Second

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	templateDir string
	dataDir     string
	debug       bool
	pprofAddr   string
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: 5000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&templateDir, "templates", config.DefaultTemplateDir, "Template directory, embedded templates are used if it does not exist")
	flag.StringVar(&dataDir, "datadir", config.DefaultDataDir, "Directory for the sqlite database file")
	flag.BoolVar(&debug, "debug", false, "Enable gin debug mode and verbose ORM logging")
	flag.StringVar(&pprofAddr, "pprof", "", "Start the pprof web profiler on this address (e.g. :51111)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting docproject: Web Server (version: %s)", appVersion)

	if pprofAddr != "" {
		profiler := prof.NewProf()
		go profiler.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof web profiler listening on %s", pprofAddr)
	}

	webConfig := mainConfig.Web

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	} else {
		log.Printf("[WEB]: No port flag provided, using default: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	webConfig.TemplateDir = templateDir
	webConfig.Debug = debug
	mainConfig.Database.DataDir = dataDir
	mainConfig.Database.Debug = debug

	if err := webConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid web configuration: %v", err)
	}
	log.Printf("[WEB]: Using WEB configuration: %#v", webConfig)

	// Open the ORM handle. Nothing queries or migrates it.
	dbConfig := database.DefaultDBConfig()
	dbConfig.DataDir = mainConfig.Database.DataDir
	if mainConfig.Database.Debug {
		dbConfig.LogLevel = logger.Info
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.OpenDatabase(ctx, dbConfig)
	cancel()
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	server := web.NewServer(db, webConfig)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Printf("[WEB]: Starting docproject web server on %s://localhost:%d", webConfig.Protocol(), webConfig.ListenPort)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	// Wait for either shutdown signal or server error
	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		if cerr := db.Close(); cerr != nil {
			log.Printf("[WEB]: Error closing database: %v", cerr)
		}
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error stopping web server: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("[WEB]: Failed to shutdown database: %v", err)
	} else {
		log.Printf("[WEB]: Database shutdown successfully")
	}

	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
