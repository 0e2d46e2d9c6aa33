package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"collegefinder/internal/browse"
	"collegefinder/internal/catalog"
	"collegefinder/internal/config"
	"collegefinder/internal/eventbus"
	"collegefinder/internal/location"
	"collegefinder/internal/logger"
	"collegefinder/internal/metrics"
	"collegefinder/internal/portal"
	"collegefinder/internal/ui"
)

// saveWait bounds how long quitting waits for the last query to be written
const saveWait = time.Second

// app carries the flags and everything built from them
type app struct {
	configPath  string
	baseURL     string
	logFile     string
	logLevel    string
	metricsAddr string
	fresh       bool

	cfgSvc config.ConfigService
	cfg    *config.Config
	log    *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "collegefinder [link or query]",
		Short: "Browse the college listing of the education portal",
		Long: `collegefinder is a terminal client for the education portal.

Run without a subcommand to open the interactive browser. The optional
argument is a shared link or a bare query such as "stream=Law&state=Delhi";
without it the last viewed query is restored.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/collegefinder/config.toml)")
	pf.StringVar(&a.baseURL, "base-url", "", "API root, overrides api.base_url")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to this file, overrides log.file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	root.Flags().BoolVar(&a.fresh, "fresh", false, "start from an empty query instead of the last one")

	root.AddCommand(
		newListCmd(a),
		newSuggestCmd(a),
		newShowCmd(a),
		newCourseCmd(a),
		newExamCmd(a),
		newPredictCmd(a),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.cfgSvc = config.NewConfigService(a.configPath)
	cfg, err := a.cfgSvc.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL = a.baseURL
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) client() *portal.Client {
	return portal.New(a.cfg.API.BaseURL,
		portal.WithTimeout(a.cfg.API.Timeout.Std()),
		portal.WithToken(a.cfg.API.Token),
		portal.WithRateLimit(a.cfg.API.RateLimit, a.cfg.API.Burst),
		portal.WithLogger(a.log),
	)
}

func (a *app) browseOptions() browse.Options {
	return browse.Options{
		PageSize: a.cfg.Browse.PageSize,
		MaxPages: a.cfg.Browse.MaxPages,
		Debounce: a.cfg.Browse.Debounce.Std(),
	}
}

// initialQuery picks the starting location: the argument, else the last
// viewed query when restoring is on
func (a *app) initialQuery(args []string) (string, error) {
	if len(args) == 1 {
		return location.QueryOf(args[0])
	}
	if !a.fresh && a.cfg.UI.RestoreLastQuery {
		return a.cfg.UI.LastQuery, nil
	}
	return "", nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	initial, err := a.initialQuery(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(a.log)

	// persists the last query when the UI quits
	config.NewConfigServiceWithBus(a.cfgSvc.Path(), bus)
	saved := make(chan struct{}, 1)
	bus.Subscribe(eventbus.EventConfigChanged, func(eventbus.DomainEvent) {
		select {
		case saved <- struct{}{}:
		default:
		}
	})

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, a.log); err != nil {
				a.log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	client := a.client()
	loc := location.New(bus, initial)
	ctrl := browse.New(client, loc, bus, a.log, catalog.MustDefault(), a.browseOptions())

	model := ui.NewModel(ctrl, loc, client, bus, a.cfg, a.log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			a.log.Debug("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventFilterChanged,
		eventbus.EventResultsUpdated,
		eventbus.EventSuggestionsUpdated,
		eventbus.EventFetchFailed,
	} {
		bus.Subscribe(t, forward)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	ctrl.Start()
	a.log.Info("starting UI", zap.String("query", initial), zap.String("api", client.BaseURL()))
	_, runErr := p.Run()

	if model.SavedOnQuit() {
		select {
		case <-saved:
		case <-time.After(saveWait):
			a.log.Warn("last query not saved in time")
		}
	}

	// Cleanup
	ctrl.Close()
	bus.Close()
	close(eventChan)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running UI: %w", runErr)
	}
	return nil
}
