package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rnwolfe/lifeos/internal/ai"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/secrets"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Configure the AI provider used for insights",
	RunE:  hook.Wrap("ai", runAIProviders),
}

var (
	aiConfigProvider string
	aiConfigKey      string
	aiConfigModel    string
	aiConfigSecrets  bool
	aiConfigForget   bool
)

var aiConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Set your AI provider and API key",
	Long: `Set the default provider and store its API key. Keys go to a private
keys.json in the config directory, or with --secrets to an encrypted file
unlocked by ` + secrets.PassphraseEnv + `.

Examples:
  lifeos ai config --provider claude --key sk-ant-...
  lifeos ai config --provider groq --secrets
  lifeos ai config --provider openai --forget`,
	Args: cobra.NoArgs,
	RunE: hook.Wrap("ai.config", runAIConfig),
}

var aiProvidersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"list", "ls"},
	Short:   "List providers and where their keys come from",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("ai.providers", runAIProviders),
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiConfigCmd)
	aiCmd.AddCommand(aiProvidersCmd)

	aiConfigCmd.Flags().StringVarP(&aiConfigProvider, "provider", "p", "", "Provider ("+strings.Join(ai.ListProviders(), ", ")+")")
	aiConfigCmd.Flags().StringVarP(&aiConfigKey, "key", "k", "", "API key (prompted when omitted on a terminal)")
	aiConfigCmd.Flags().StringVarP(&aiConfigModel, "model", "m", "", "Default model")
	aiConfigCmd.Flags().BoolVar(&aiConfigSecrets, "secrets", false, "Store the key in the encrypted secrets file")
	aiConfigCmd.Flags().BoolVar(&aiConfigForget, "forget", false, "Remove the stored key for the provider")
}

func runAIConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	provider := aiConfigProvider
	if provider == "" {
		provider = cfg.AI.Provider
	}
	if !ai.IsRegistered(provider) {
		return fmt.Errorf("unknown provider %q (available: %s)", provider, strings.Join(ai.ListProviders(), ", "))
	}

	if aiConfigForget {
		return forgetKey(provider)
	}

	key := aiConfigKey
	if key == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		key, err = readSecret(fmt.Sprintf("  %s API key (blank to keep): ", provider))
		if err != nil {
			return err
		}
	}
	if key != "" {
		if err := storeKey(provider, key); err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("%s API key stored for %s\n", ui.IconLock, ui.Accent.Render(provider))
	}

	cfg.AI.Provider = provider
	if aiConfigModel != "" {
		cfg.AI.Model = aiConfigModel
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("Default provider set to %s", ui.Accent.Render(provider)))
	ui.Kv("Model", ai.ModelFor(provider, cfg.AI.Model))
	fmt.Println()
	return nil
}

func storeKey(provider, key string) error {
	if aiConfigSecrets {
		f, err := openSecrets()
		if err != nil {
			return err
		}
		if err := f.Set(provider, key); err != nil {
			return fmt.Errorf("storing API key: %w", err)
		}
		return nil
	}
	ks := ai.NewKeyStore()
	if err := ks.Load(); err != nil {
		return err
	}
	ks.Set(provider, key)
	return ks.Save()
}

func forgetKey(provider string) error {
	if aiConfigSecrets {
		f, err := openSecrets()
		if err != nil {
			return err
		}
		if err := f.Delete(provider); err != nil {
			return fmt.Errorf("removing API key: %w", err)
		}
	} else {
		ks := ai.NewKeyStore()
		if err := ks.Load(); err != nil {
			return err
		}
		ks.Delete(provider)
		if err := ks.Save(); err != nil {
			return err
		}
	}
	ui.Ok("Removed stored key for " + provider)
	return nil
}

// openSecrets opens the encrypted secrets file, asking for the passphrase
// when it is not in the environment.
func openSecrets() (*secrets.File, error) {
	if f, ok := secrets.FromEnv(); ok {
		return f, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("secrets passphrase required: set %s or run interactively", secrets.PassphraseEnv)
	}
	pass, err := readSecret("  Secrets passphrase: ")
	if err != nil {
		return nil, err
	}
	if pass == "" {
		return nil, fmt.Errorf("passphrase can't be empty")
	}
	return secrets.Open(pass), nil
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, ui.Muted.Render(prompt))
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func runAIProviders(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println()
	fmt.Println(ui.Title.Render("  AI Providers"))
	fmt.Println()
	for _, p := range ai.ListProviders() {
		marker, model := "  ", ""
		if p == cfg.AI.Provider {
			marker, model = ui.Success.Render(ui.IconOk), cfg.AI.Model
		}
		status := ui.Muted.Render("no key")
		if _, source, err := ai.ResolveKey(p); err == nil {
			status = ui.Success.Render("key from " + source)
		}
		fmt.Printf("  %s%-12s %-32s %s\n", marker, ui.KeyStyle.Render(p),
			ui.Muted.Render(ai.ModelFor(p, model)), status)
	}
	fmt.Println()
	if env := ai.EnvKeyFor(cfg.AI.Provider); env != "" {
		ui.Tip(fmt.Sprintf("Set %s or run `lifeos ai config` to add a key.", env))
	}
	fmt.Println()
	return nil
}
