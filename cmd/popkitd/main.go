// Package main is the entry point for the popkitd popup overlay daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/popkit/popkit/internal/audio"
	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/dbus"
	"github.com/popkit/popkit/internal/layout"
	"github.com/popkit/popkit/internal/theme"
	"github.com/popkit/popkit/internal/widget"
	"github.com/popkit/popkit/internal/windowing"
)

const (
	appID   = "org.popkit.popkitd"
	appName = "popkitd"
)

var (
	// Build-time variables
	version = "dev"
)

// cueingManager plays the open cue around the manager's Open. The
// close cue rides on the closed callback instead.
type cueingManager struct {
	*widget.Manager
	cues *audio.Cues
}

func (c *cueingManager) Open(title, body, icon string) (string, error) {
	id, err := c.Manager.Open(title, body, icon)
	if err == nil {
		go c.cues.PopupOpened()
	}
	return id, err
}

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/popkit/config.toml)")
	flag.Parse()

	if *showVersion {
		println("popkitd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting popkitd", "version", version)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		gtkService    *windowing.GTK
		manager       *widget.Manager
		dbusServer    *dbus.Server
		cues          *audio.Cues
		themeWatcher  *theme.Watcher
		configWatcher *config.Watcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				if configWatcher != nil {
					_ = configWatcher.Stop()
				}
				if themeWatcher != nil {
					themeWatcher.Stop()
				}
				if manager != nil {
					manager.CloseAll()
				}
				if dbusServer != nil {
					_ = dbusServer.Stop()
				}
				if cues != nil {
					cues.Close()
				}
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		gtkService = windowing.NewGTK(&app.Application)

		// Theme
		activeTheme, err := theme.Load(cfg.Theme.Name, config.ThemesDir())
		if err != nil {
			logger.Warn("failed to load theme, using default", "theme", cfg.Theme.Name, "error", err)
			activeTheme = theme.NewDefaultTheme()
		}
		if err := gtkService.ApplyCSS(activeTheme.CSS); err != nil {
			logger.Warn("failed to apply theme CSS", "error", err)
		}

		themeWatcher = theme.NewWatcher(activeTheme, logger)
		themeWatcher.SetChangeCallback(func(css string) {
			glib.IdleAdd(func() {
				if err := gtkService.ApplyCSS(css); err != nil {
					logger.Warn("failed to apply reloaded CSS", "error", err)
				}
			})
		})
		if err := themeWatcher.Start(ctx); err != nil {
			logger.Warn("failed to start theme watcher", "error", err)
		}

		// Chrome template
		chrome, err := layout.NewLoader(config.TemplatesDir()).Load(cfg.Chrome.Template)
		if err != nil {
			logger.Warn("failed to load chrome template, using default",
				"template", cfg.Chrome.Template, "error", err)
			chrome = layout.DefaultChrome()
		}

		// Sound cues
		cues = audio.NewCues(cfg.Sound, logger)

		// Popup manager
		manager = widget.NewManager(gtkService, widget.NewDefaultResolver(), cfg, chrome, logger)

		// D-Bus control surface
		dbusServer = dbus.NewServer(&cueingManager{Manager: manager, cues: cues}, logger)
		manager.SetClosedCallback(func(id string, reason widget.CloseReason) {
			go cues.PopupClosed()
			if err := dbusServer.EmitPopupClosed(id, reason); err != nil {
				logger.Warn("failed to emit PopupClosed", "id", id, "error", err)
			}
		})

		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		// Config hot-reload
		configWatcher, err = config.NewWatcher(*configPath, func(newCfg *config.Config) {
			glib.IdleAdd(func() {
				newChrome := chrome
				if newCfg.Chrome.Template != cfg.Chrome.Template {
					c, err := layout.NewLoader(config.TemplatesDir()).Load(newCfg.Chrome.Template)
					if err != nil {
						logger.Warn("failed to load new chrome template",
							"template", newCfg.Chrome.Template, "error", err)
					} else {
						newChrome = c
					}
				}

				if newCfg.Theme.Name != cfg.Theme.Name {
					t, err := theme.Load(newCfg.Theme.Name, config.ThemesDir())
					if err != nil {
						logger.Warn("failed to load new theme",
							"theme", newCfg.Theme.Name, "error", err)
					} else {
						if err := gtkService.ApplyCSS(t.CSS); err != nil {
							logger.Warn("failed to apply new theme CSS", "error", err)
						}
						themeWatcher.UpdateTheme(t)
					}
				}

				manager.UpdateConfig(newCfg, newChrome)
				cues.UpdateConfig(newCfg.Sound)
				cfg = newCfg
				chrome = newChrome
				logger.Info("configuration reloaded")
			})
		})
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := configWatcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		logger.Info("popkitd ready", "dbus_interface", dbus.Interface)

		// GTK apps quit when all windows are closed, so keep a hidden
		// window around.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			_ = configWatcher.Stop()
		}
		if themeWatcher != nil {
			themeWatcher.Stop()
		}
		if manager != nil {
			manager.CloseAll()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if cues != nil {
			cues.Close()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])

	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("popkitd stopped")
}
