package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
)

var (
	evalExpr      string
	maxIterations int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a TokenScript file or expression",
	Long: `Execute a TokenScript program from a file or inline expression and
print its result.

The default color specifications (RGB, HSL, Hex) and unit
specifications (px, rem, %) are registered before execution.

Examples:
  # Run a script file
  tokenscript run tokens.ts

  # Evaluate an inline expression
  tokenscript run -e "return 1rem + 1px;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the loop iteration cap")
}

// readInput resolves the source text from either the -e flag or a file
// argument.
func readInput(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

func runScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := specs.NewConfig()
	if err != nil {
		return err
	}
	if maxIterations > 0 {
		cfg.LanguageOptions.MaxIterations = maxIterations
	}

	result, err := interp.Run(input, interp.Options{Config: cfg})
	if err != nil {
		if re, ok := err.(*errors.RuntimeError); ok {
			printError(re.Format(input))
			os.Exit(1)
		}
		return err
	}

	fmt.Println(result.String())
	return nil
}
