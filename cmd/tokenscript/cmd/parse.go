package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokens-studio/go-tokenscript/internal/lexer"
	"github.com/tokens-studio/go-tokenscript/internal/parser"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a TokenScript file or expression",
	Long: `Parse a TokenScript program and print the canonical form of its AST.
Useful for debugging the parser and checking how a program was read.

Examples:
  tokenscript parse tokens.ts
  tokenscript parse -e "return {spacing.base} * 2;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := specs.NewConfig()
	if err != nil {
		return err
	}

	l := lexer.New(input, lexer.WithUnitKeywords(cfg.UnitKeyword))
	p := parser.New(l)
	program := p.ParseProgram()

	failed := false
	for _, lexErr := range l.Errors() {
		printError(lexErr.Error())
		failed = true
	}
	for _, parseErr := range p.Errors() {
		printError(parseErr.Error())
		failed = true
	}
	if failed {
		os.Exit(1)
	}

	fmt.Println(program.String())
	return nil
}
