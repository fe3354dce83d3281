package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/acme/autocert"

	"porch/handler"
	"porch/lint"
	"porch/metrics"
	"porch/site"
	"porch/store"
)

const (
	devEnv = "dev"
	proEnv = "pro"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site and watches the content directory",
	Long: `The serve command loads the content tree, starts the web
server, and reloads content when files change. With no listen address
configured it serves HTTPS via Let's Encrypt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := appConfig

	jwtSecret, err := fetchSecret(cfg.JWTSecret, cfg.Environment)
	if err != nil {
		return err
	}

	log.Println("Running database schema migrations...")
	db, err := store.Open(cfg.DBDriver, cfg.DBURL, "file://db/migrations")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	authorPassword := cfg.AuthorPassword
	if authorPassword == "" && cfg.Environment == devEnv {
		authorPassword = "unsecure"
	}
	if authorPassword != "" {
		if _, err := db.EnsureAuthor(cfg.AuthorUser, authorPassword); err != nil {
			return fmt.Errorf("ensuring author account: %w", err)
		}
	}

	lib, err := site.Load(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	log.Printf("Loaded %d documents (%d posts, %d decks, %d pages)",
		len(lib.Documents), len(lib.Posts), len(lib.Decks), len(lib.Pages))
	reportIssues(lib)

	h := &handler.Handler{
		Store:     db,
		JWTSecret: jwtSecret,
		Site:      cfg,
	}
	h.SetLibrary(lib)

	registry, err := handler.NewTemplateRegistry(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	e := echo.New()
	e.Renderer = registry
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(metrics.Middleware())
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		TokenLookup: "cookie:Authorization",
		Skipper: func(c echo.Context) bool {
			if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodOptions || c.Path() == "/login" {
				return true
			}

			return false
		},
	}))

	handler.Register(e, h, cfg.StaticDir)
	e.GET("/metrics", metrics.Handler())

	e.HTTPErrorHandler = newHTTPErrorHandler(cfg.StaticDir)

	stopWatch, err := watchContent(cfg.ContentDir, func() {
		fresh, err := site.Load(cfg.ContentDir)
		if err != nil {
			log.Printf("Error reloading content: %v", err)
			return
		}
		h.SetLibrary(fresh)
		metrics.LibraryReloads.Inc()
		log.Printf("Content reloaded: %d documents", len(fresh.Documents))
		reportIssues(fresh)
	})
	if err != nil {
		log.Printf("Content watching disabled: %v", err)
	} else {
		defer stopWatch()
	}

	addr := cfg.Address
	if cfg.Environment == devEnv && addr == "" {
		addr = ":8080"
	}

	if addr != "" {
		e.Logger.Fatal(e.Start(addr))
	} else {
		// Cache certificates to avoid issues with rate limits (https://letsencrypt.org/docs/rate-limits)
		e.AutoTLSManager.Cache = autocert.DirCache("/var/www/.cache")
		if onlyHost := cfg.WhitelistHost; onlyHost != "" {
			e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(onlyHost)
		}
		e.Pre(middleware.HTTPSRedirect())
		e.Logger.Fatal(e.StartAutoTLS(":443"))
	}
	return nil
}

// reportIssues runs the cheap document checks so content mistakes show
// up in the server log without waiting for `porch check`.
func reportIssues(lib *site.Library) {
	issues := lint.Documents(lib)
	if len(issues) == 0 {
		return
	}
	metrics.LintIssuesFound.Add(float64(len(issues)))
	for _, issue := range issues {
		log.Printf("lint: %s", issue)
	}
}

func fetchSecret(secret, env string) (string, error) {
	if secret == "" && env == devEnv {
		secret = "unsecure"
	}
	if secret == "" {
		return "", errors.New("no secret defined")
	}
	return secret, nil
}

// watchContent rebuilds the library when files under dir change, with a
// debounce so editor save bursts trigger one reload.
func watchContent(dir string, reload func()) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	go func() {
		var reloadTimer *time.Timer
		debounceDuration := 500 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					if event.Has(fsnotify.Create) && isDir(event.Name) {
						if err := watcher.Add(event.Name); err != nil {
							log.Printf("Error watching new directory %s: %v", event.Name, err)
						}
					}

					if reloadTimer != nil {
						reloadTimer.Stop()
					}
					reloadTimer = time.AfterFunc(debounceDuration, reload)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Watcher error: %v", err)
			}
		}
	}()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Content directory '%s' not found, not watching.", dir)
		return watcher.Close, nil
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				log.Printf("Failed to watch %s: %v", path, watchErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error walking %s for watching: %v", dir, err)
	}

	return watcher.Close, nil
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

// newHTTPErrorHandler serves the static error pages (404.html, 500.html)
// the way the site has always done.
func newHTTPErrorHandler(staticDir string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code != http.StatusNotFound {
			c.Logger().Error(err)
		}
		errorPage := filepath.Join(staticDir, fmt.Sprintf("%d.html", code))
		if err := c.File(errorPage); err != nil {
			c.Logger().Error(err)
		}
	}
}
