package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/flowcast/internal/api"
	"github.com/terraincognita07/flowcast/internal/cli"
	"github.com/terraincognita07/flowcast/internal/config"
	"github.com/terraincognita07/flowcast/internal/db"
	"github.com/terraincognita07/flowcast/internal/i18n"
	"github.com/terraincognita07/flowcast/internal/logger"
	"github.com/terraincognita07/flowcast/internal/services"
)

const csrfHeaderName = "X-Csrf-Token"

var errMissingCSRFToken = errors.New("missing csrf token")

type command struct {
	name       string
	outputPath string
	inputPath  string
}

func main() {
	cmd, err := parseCommand(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	switch cmd.name {
	case "export":
		err = cli.RunExportCommand(cfg.DBPath, cmd.outputPath, os.Stdout, time.Now())
	case "import":
		err = cli.RunImportCommand(cfg.DBPath, cmd.inputPath, os.Stdout)
	case "predict":
		err = cli.RunPredictCommand(cfg.DBPath, os.Stdout, cfg.ICSProjectedCycles)
	default:
		err = serve(cfg, location)
	}
	if err != nil {
		logger.Log.Fatalf("%s failed: %v", cmd.name, err)
	}
}

const usage = "usage: flowcast [serve] | export [-o file] | import <file> | predict"

func parseCommand(args []string, output io.Writer) (command, error) {
	if len(args) == 0 {
		return command{name: "serve"}, nil
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	rest := args[1:]
	switch name {
	case "serve", "predict":
		if len(rest) > 0 {
			return command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return command{name: name}, nil
	case "export":
		flags := flag.NewFlagSet("export", flag.ContinueOnError)
		flags.SetOutput(output)
		outputPath := flags.String("o", "", "write the snapshot to this file instead of stdout")
		if err := flags.Parse(rest); err != nil {
			return command{}, err
		}
		if flags.NArg() > 0 {
			return command{}, errors.New("export takes only -o")
		}
		return command{name: name, outputPath: *outputPath}, nil
	case "import":
		if len(rest) != 1 || strings.TrimSpace(rest[0]) == "" {
			return command{}, errors.New("import requires exactly one file")
		}
		return command{name: name, inputPath: rest[0]}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(cfg *config.AppConfig, location *time.Location) error {
	if err := services.ValidateBackupSchedule(cfg.BackupCron); err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, i18nManager, api.HandlerOptions{
		Location:        location,
		CookieSecure:    cfg.CookieSecure,
		ProjectedCycles: cfg.ICSProjectedCycles,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "FlowCast",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: logger.Writer()}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	backups := services.NewBackupService(db.NewSnapshotRepository(database), cfg.BackupDir, cfg.BackupCron, location)
	if backups.Enabled() {
		if err := backups.Start(); err != nil {
			return fmt.Errorf("backup scheduler failed: %w", err)
		}
		defer backups.Stop()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.Log.Infof("FlowCast listening on http://%s (db: %s, tz: %s)", cfg.Address(), cfg.DBPath, location.String())
	return app.Listen(cfg.Address())
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Extractor:      csrfTokenExtractor,
		CookieName:     api.CSRFCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

// csrfTokenExtractor accepts the token from the X-Csrf-Token header (JSON clients) or the
// csrf_token form field (HTML forms, multipart import).
func csrfTokenExtractor(c *fiber.Ctx) (string, error) {
	if token := strings.TrimSpace(c.Get(csrfHeaderName)); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.FormValue(api.CSRFFormField)); token != "" {
		return token, nil
	}
	return "", errMissingCSRFToken
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Log.Warnf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
