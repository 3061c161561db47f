package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/adapters/driven/ai"
	configfile "github.com/asfc-labs/docchat/internal/adapters/driven/config/file"
)

// knownKeys lists every configuration key a user may set, with the type
// it is parsed as.
var knownKeys = map[string]string{
	configfile.KeyChunkMaxChars: "int",
	configfile.KeyChunkOverlap:  "int",

	configfile.KeyRetrievalTopK:     "int",
	configfile.KeyRetrievalSemantic: "bool",
	configfile.KeyHistoryTurns:      "int",

	configfile.KeyEmbeddingProvider:   "string",
	configfile.KeyEmbeddingModel:      "string",
	configfile.KeyEmbeddingBaseURL:    "string",
	configfile.KeyEmbeddingAPIKey:     "string",
	configfile.KeyEmbeddingDimensions: "int",
	configfile.KeyEmbeddingTimeout:    "int",

	configfile.KeyLLMProvider:          "string",
	configfile.KeyLLMModel:             "string",
	configfile.KeyLLMBaseURL:           "string",
	configfile.KeyLLMAPIKey:            "string",
	configfile.KeyLLMTimeout:           "int",
	configfile.KeyLLMRequestsPerMinute: "int",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docchat configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it immediately.

Examples:
  docchat config set llm.provider openrouter
  docchat config set llm.model anthropic/claude-sonnet-4
  docchat config set llm.api_key sk-or-...
  docchat config set retrieval.semantic true

Run 'docchat config show' to see every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configured AI providers are reachable",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	keys := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("%-28s (unset)\n", key)
			continue
		}
		cmd.Printf("%-28s %v\n", key, redactIfSecret(key, value))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}
	if _, ok := knownKeys[args[0]]; !ok {
		return fmt.Errorf("unknown key %q", args[0])
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		cmd.Println("(unset)")
		return nil
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}

	value, err := parseConfigValue(kind, raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := configStore.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}
	if _, ok := knownKeys[args[0]]; !ok {
		return fmt.Errorf("unknown key %q", args[0])
	}
	if err := configStore.Delete(args[0]); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}
	loaded := configfile.LoadSettings(configStore)

	out := cmd.OutOrStdout()
	var failed bool

	if loaded.LLM.Provider == "" {
		cmd.Println("LLM: not configured")
	} else if err := ai.ValidateLLMConfig(loaded.LLM); err != nil {
		failed = true
		color.New(color.FgRed).Fprintf(out, "LLM: %v\n", err)
	} else {
		color.New(color.FgGreen).Fprintf(out, "LLM: ok (%s/%s)\n", loaded.LLM.Provider, loaded.LLM.Model)
	}

	if loaded.Embedding.Provider == "" {
		cmd.Println("Embedding: not configured")
	} else if err := ai.ValidateEmbeddingConfig(loaded.Embedding); err != nil {
		failed = true
		color.New(color.FgRed).Fprintf(out, "Embedding: %v\n", err)
	} else {
		color.New(color.FgGreen).Fprintf(out, "Embedding: ok (%s/%s)\n", loaded.Embedding.Provider, loaded.Embedding.Model)
	}

	if failed {
		return fmt.Errorf("configuration validation failed")
	}
	return nil
}

func parseConfigValue(kind, raw string) (any, error) {
	switch kind {
	case "int":
		return strconv.Atoi(raw)
	case "bool":
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

func redactIfSecret(key string, value any) any {
	if strings.HasSuffix(key, ".api_key") {
		if s, ok := value.(string); ok && s != "" {
			return "****" + lastN(s, 4)
		}
	}
	return value
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
