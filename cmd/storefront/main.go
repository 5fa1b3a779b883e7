// Command storefront is a terminal storefront client: product browsing,
// search, cart, checkout, and order history against a catalog backend, with a
// built-in development twin of the backend and payment processor.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storefront/cmd/storefront/ui"
	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/payment"
	"storefront/internal/session"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	backendURL   string
	processorURL string

	// Shared wiring, built in PersistentPreRunE
	cfg        *config.Config
	authStore  *session.Store
	cartStore  *cart.Store
	backend    *api.Client
	processor  *payment.Client

	// Logger for the non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Terminal storefront client",
	Long: `storefront is a terminal client for a catalog backend: browse products,
search as you type, manage a cart, and pay through a Stripe-style processor.

Run without arguments to start the interactive interface. Subcommands expose
the same operations for scripting. "storefront twin" serves an in-memory
stand-in for the backend and processor for local development.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if backendURL != "" {
			cfg.Backend.BaseURL = backendURL
		}
		if processorURL != "" {
			cfg.Processor.BaseURL = processorURL
		}
		if verbose {
			cfg.Logging.DebugMode = true
		}

		if err := logging.Initialize(cfg.State.Dir, logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		authStore, err = session.Open(cfg.State.Dir)
		if err != nil {
			return fmt.Errorf("failed to open session state: %w", err)
		}

		userID := int64(0)
		if identity, ok := authStore.Current(); ok {
			userID = identity.ID
		}
		cartStore, err = cart.Open(cfg.State.Dir, userID)
		if err != nil {
			return fmt.Errorf("failed to open cart state: %w", err)
		}
		// Signing out leaves no cart behind for the next identity.
		authStore.AddLogoutHook(func() {
			cartStore.Clear()
			cartStore.SwitchUser(0)
		})

		backend = api.New(cfg.Backend.BaseURL, cfg.BackendTimeout(), authStore)
		processor = payment.New(cfg.Processor.BaseURL, cfg.ProcessorTimeout())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// runInteractive launches the full-screen interface.
func runInteractive() error {
	deps := buildDeps()

	// The program handle is captured by the debounce dispatcher; by the
	// time any keystroke fires it, Run has assigned it.
	var program *tea.Program
	deps.Send = func(msg tea.Msg) {
		program.Send(msg)
	}

	program = tea.NewProgram(ui.NewApp(deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

func buildDeps() ui.Deps {
	return ui.Deps{
		Config:    cfg,
		Backend:   backend,
		Processor: processor,
		Session:   authStore,
		Cart:      cartStore,
		Send:      func(tea.Msg) {},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&processorURL, "processor", "", "Payment processor base URL (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(twinCmd)
}
