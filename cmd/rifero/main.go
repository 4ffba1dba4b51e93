package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/matiasvera/rifero/internal/config"
	"github.com/matiasvera/rifero/internal/tui"
	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("rifero " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(cfg)
		case "whoami":
			return runWhoami(cfg)
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	log, err := logger.New(filepath.Join(cfg.DataDir, "rifero.log"), cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // best-effort flush

	store := auth.NewCredentialStore(cfg.DataDir, log)

	// The client asks the session for its bearer token on every request,
	// and the session drives the client for login — the closure breaks
	// the construction cycle.
	var sess *auth.Session
	c := client.New(cfg.APIURL, func() string {
		if sess == nil {
			return ""
		}
		return sess.AccessToken()
	})
	sess = auth.NewSession(c, store, log)

	log.Info("starting", zap.String("version", version), zap.String("api_url", cfg.APIURL))

	app := tui.NewApp(c, sess, log, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout drops the persisted credentials without starting the TUI.
func runLogout(cfg config.Config) error {
	store := auth.NewCredentialStore(cfg.DataDir, zap.NewNop())
	if access, _, _ := store.Load(); access == "" {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

// runWhoami reports the persisted identity, flagging an expired token.
func runWhoami(cfg config.Config) error {
	store := auth.NewCredentialStore(cfg.DataDir, zap.NewNop())
	access, _, user := store.Load()
	if access == "" || user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
	if user.Admin() {
		fmt.Println("role: admin")
	}
	if !auth.TokenValid(access, time.Now()) {
		fmt.Println("session expired — sign in again from the app")
	}
	return nil
}

func printHelp() {
	fmt.Print(`rifero — raffle marketplace in your terminal

Usage:
  rifero            launch the app
  rifero whoami     show the signed-in user
  rifero logout     drop the saved session
  rifero version    print the version

Environment:
  RIFERO_API_URL       API base URL (default https://api.rifero.app)
  RIFERO_DATA_DIR      credential and log directory (default ~/.rifero)
  RIFERO_LOG_LEVEL     debug, info, warn or error (default info)
  RIFERO_LOG_ENCODING  json or console (default json)
`)
}
