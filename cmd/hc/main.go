package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/helpcab/pkg/api"
	"github.com/vanderheijden86/helpcab/pkg/config"
	"github.com/vanderheijden86/helpcab/pkg/debug"
	"github.com/vanderheijden86/helpcab/pkg/model"
	"github.com/vanderheijden86/helpcab/pkg/session"
	"github.com/vanderheijden86/helpcab/pkg/ui"
	"github.com/vanderheijden86/helpcab/pkg/version"
	"github.com/vanderheijden86/helpcab/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	serverFlag := flag.String("server", "", "API base URL (overrides the config file)")
	debugFlag := flag.Bool("debug", false, "Enable debug logging to stderr")
	flag.Parse()

	if *help {
		fmt.Println("Usage: hc [options]")
		fmt.Println("\nA TUI client for the HelpCab ticket desk.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("hc %s\n", version.Version)
		os.Exit(0)
	}

	if *debugFlag {
		debug.SetEnabled(true)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults, the server URL can still
		// come from the flag or the first-run form.
		cfg = config.DefaultConfig()
	}

	serverURL := strings.TrimSpace(*serverFlag)
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}
	if serverURL == "" {
		entered, err := askServerURL()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: no server URL configured: %v\n", err)
			fmt.Fprintln(os.Stderr, "Set one with 'hc --server <url>' or in", config.ConfigPath())
			os.Exit(1)
		}
		serverURL = entered
		cfg.ServerURL = serverURL
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		}
	}

	gauge := &ui.Gauge{}
	client, err := api.NewClient(api.Config{
		BaseURL: serverURL,
		Hooks:   gauge.Hooks(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := session.NewStore("")
	sess, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable session: %v\n", err)
		sess = nil
	}

	// Watch the session file so a login or logout in another terminal is
	// picked up here too.
	var watch *watcher.Watcher
	if path := store.Path(); path != "" {
		if w, werr := watcher.New(path); werr == nil {
			if werr = w.Start(); werr == nil {
				watch = w
				defer w.Stop()
			}
		}
	}

	m := ui.NewModel(ui.Options{
		Client:         client,
		Store:          store,
		Watcher:        watch,
		Gauge:          gauge,
		Session:        sess,
		DefaultSection: model.Section(cfg.UI.DefaultSection),
		CommentAuthor:  cfg.UI.CommentAuthor,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running hc: %v\n", err)
		os.Exit(1)
	}
}

// askServerURL prompts for the API base URL on first run. Requires an
// interactive terminal.
func askServerURL() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}

	var serverURL string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("HelpCab server").
				Description("Base URL of the ticket API, e.g. https://helpcab.example.com/api").
				Placeholder("https://").
				Validate(func(s string) error {
					u, err := url.Parse(strings.TrimSpace(s))
					if err != nil || u.Scheme == "" || u.Host == "" {
						return errors.New("enter a full http(s) URL")
					}
					return nil
				}).
				Value(&serverURL),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(serverURL), nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set HC_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("HC_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
