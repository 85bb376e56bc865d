package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tokens-studio/go-tokenscript/internal/specs"
	"github.com/tokens-studio/go-tokenscript/internal/tokenset"
)

var (
	outputJSON bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <tokens.json>",
	Short: "Resolve a design-token document",
	Long: `Resolve a DTCG-shaped design-token JSON document: flatten its groups,
compose $themes, expand token references and formulas, and print the
final leaf values.

Failing leaves are reported as diagnostics and omitted; the rest of the
document still resolves.

Examples:
  tokenscript resolve tokens.json
  tokenscript resolve tokens.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: resolveTokens,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&outputJSON, "json", false, "print the result as a nested JSON document")
}

func resolveTokens(_ *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}

	cfg, err := specs.NewConfig()
	if err != nil {
		return err
	}

	result, err := tokenset.NewProcessor(cfg).Process(raw)
	if err != nil {
		return err
	}

	if outputJSON {
		out, err := result.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else if result.Themes != nil {
		themes := make([]string, 0, len(result.Themes))
		for name := range result.Themes {
			themes = append(themes, name)
		}
		sort.Strings(themes)
		for _, name := range themes {
			fmt.Printf("[%s]\n", name)
			printTokens(result.Themes[name])
		}
	} else {
		printTokens(result.Tokens)
	}

	for _, diag := range result.Diagnostics {
		printError(fmt.Sprintf("%s: %s: %s", diag.Kind, diag.Path, diag.Message))
	}
	return nil
}

func printTokens(tokens map[string]string) {
	paths := make([]string, 0, len(tokens))
	for path := range tokens {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Printf("%s = %s\n", path, tokens[path])
	}
}
