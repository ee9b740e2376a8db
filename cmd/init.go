package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rnwolfe/lifeos/internal/ai"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/store"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	initName     string
	initProvider string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up lifeos for the first time",
	Long:  `Create the config file and database. Prompts for your name and AI provider on a terminal.`,
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("init", runInit),
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Your display name")
	initCmd.Flags().StringVar(&initProvider, "provider", "", "AI provider (claude, openai, groq, openrouter)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
}

func runInit(_ *cobra.Command, _ []string) error {
	if config.Initialized() && !initForce {
		ui.Inf("Already set up. Config lives at " + config.GetPaths().ConfigFile)
		ui.Tip("`lifeos init --force` to start over, or `lifeos config set <key> <value>`.")
		return nil
	}

	cfg := config.Default()
	cfg.User.Name = initName
	if initProvider != "" {
		cfg.AI.Provider = initProvider
	}

	if initName == "" && initProvider == "" && ui.IsStdinTTY() {
		if err := initForm(cfg).Run(); err != nil {
			return fmt.Errorf("setup canceled: %w", err)
		}
	}

	cfg.User.Name = strings.TrimSpace(cfg.User.Name)
	if !ai.IsRegistered(cfg.AI.Provider) {
		return fmt.Errorf("unknown provider %q (available: %s)", cfg.AI.Provider, strings.Join(ai.ListProviders(), ", "))
	}
	cfg.AI.Model = ai.ModelFor(cfg.AI.Provider, "")

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	db.Close()

	paths := config.GetPaths()
	ui.Ok("lifeos is ready")
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Database", paths.DBFile)
	ui.Kv("AI", cfg.AI.Provider+" / "+cfg.AI.Model)
	ui.Tip("`lifeos habit add` to create your first habit.")
	fmt.Println()
	return nil
}

func initForm(cfg *config.Config) *huh.Form {
	options := make([]huh.Option[string], 0, len(ai.ListProviders()))
	for _, name := range ai.ListProviders() {
		options = append(options, huh.NewOption(name, name))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&cfg.User.Name),
			huh.NewSelect[string]().
				Title("AI provider for insights").
				Description("Keys are read from the environment or `lifeos ai config`.").
				Options(options...).
				Value(&cfg.AI.Provider),
		),
	)
}
