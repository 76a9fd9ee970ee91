package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"sonar/internal/api"
	"sonar/internal/config"
	"sonar/internal/domain"
	"sonar/internal/eventbus"
	"sonar/internal/health"
	"sonar/internal/history"
	"sonar/internal/search"
	"sonar/internal/ui"
)

var version = "0.1.0"

func main() {
	// The TUI owns stdout, so logs go to a file
	logFile, err := os.OpenFile("sonar.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	var (
		apiBase     string
		noAnimation bool
	)

	rootCmd := &cobra.Command{
		Use:   "sonar",
		Short: "sonar - a terminal client for an agentic search backend",
		Long: `sonar asks an agentic search backend for answers with cited sources.

Run it bare for the interactive TUI, or use the search subcommand for a
single question from scripts and pipelines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bus := eventbus.New()
			cfg, err := loadConfig(config.NewConfigServiceWithBus(bus), apiBase)
			if err != nil {
				return err
			}
			if noAnimation {
				cfg.UI.Animation = false
			}
			return runTUI(cfg, bus)
		},
	}
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "backend base URL (overrides config and SONAR_API_BASE)")
	rootCmd.Flags().BoolVar(&noAnimation, "no-animation", false, "disable the idle bubble animation")

	var (
		searchK    int
		searchJSON bool
	)
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one search and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(config.NewConfigService(), apiBase)
			if err != nil {
				return err
			}
			return runOneShot(cfg, strings.Join(args, " "), searchK, searchJSON)
		},
	}
	searchCmd.Flags().IntVarP(&searchK, "k", "k", 0, "number of sources to request (1-10)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the raw response body instead of formatted text")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(config.NewConfigService(), apiBase)
			if err != nil {
				return err
			}
			return runHealth(cfg)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService()
			cfg, err := loadConfig(svc, apiBase)
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Print(string(data))
			fmt.Printf("\n# config file: %s\n", svc.Path())
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sonar v%s\n", version)
		},
	}

	rootCmd.AddCommand(searchCmd, healthCmd, configCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file, then
// environment, then the --api-base flag, most specific last.
func loadConfig(svc config.ConfigService, apiBase string) (*config.Config, error) {
	// A .env in the working directory may carry SONAR_API_BASE
	_ = godotenv.Load()

	firstRun := false
	if _, err := os.Stat(svc.Path()); os.IsNotExist(err) {
		firstRun = true
	}

	cfg, err := svc.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// First run: write the defaults so there is a file to edit
	if firstRun {
		if err := svc.Save(cfg); err != nil {
			log.Printf("Could not write default config: %v", err)
		} else {
			log.Printf("Created default config at %s", svc.Path())
		}
	}

	cfg.ApplyEnv()
	if apiBase != "" {
		cfg.API.BaseURL = strings.TrimRight(apiBase, "/")
	}
	return cfg, nil
}

// runTUI wires the services to the event bus and runs the program.
func runTUI(cfg *config.Config, bus eventbus.EventBus) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	client := api.New(cfg.API.BaseURL, timeout)
	searchSvc := search.NewService(bus, client, timeout)

	// History is optional; the search flow never depends on it
	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.NewStore(cfg.HistoryPath())
		if err != nil {
			log.Printf("History disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
			_ = history.NewRecorder(bus, store) // subscribes to events
		}
	}

	log.Printf("Creating UI model (backend %s)...", cfg.API.BaseURL)
	uiModel := ui.NewModel(bus, cfg, store, searchSvc)

	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Forward bus events into the update loop
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, eventType := range []eventbus.EventType{
		eventbus.EventSearchCompleted,
		eventbus.EventSearchFailed,
		eventbus.EventHealthChecked,
		eventbus.EventHistoryAppended,
		eventbus.EventHistoryCleared,
		eventbus.EventError,
	} {
		bus.Subscribe(eventType, forward)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Probe the backend once at startup
	checker := health.NewChecker(bus, client)
	go checker.Check(ctx)

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	log.Printf("UI exited normally")

	close(eventChan)
	return nil
}

// runOneShot performs a single search and prints it to stdout.
func runOneShot(cfg *config.Config, query string, k int, asJSON bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	client := api.New(cfg.API.BaseURL, timeout)

	result, err := client.Search(context.Background(), domain.SearchRequest{
		Query: query,
		K:     domain.ClampK(k, cfg.Search.DefaultK),
	})
	if err != nil {
		return err
	}

	if asJSON {
		fmt.Println(result.RawBody)
		return nil
	}

	fmt.Println(result.Response.Answer)
	if len(result.Response.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range result.Response.Sources {
			fmt.Printf("  [%d] %s\n      %s\n", i+1, src.Title, src.Link)
		}
	}
	return nil
}

// runHealth prints backend reachability and sets the exit code.
func runHealth(cfg *config.Config) error {
	client := api.New(cfg.API.BaseURL, 5*time.Second)

	status, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("backend %s unreachable: %w", cfg.API.BaseURL, err)
	}
	if !status.OK {
		return fmt.Errorf("backend %s reports not ok", cfg.API.BaseURL)
	}

	fmt.Printf("backend %s ok\n", cfg.API.BaseURL)
	return nil
}
