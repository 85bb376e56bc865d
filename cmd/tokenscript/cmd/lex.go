package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokens-studio/go-tokenscript/internal/lexer"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a TokenScript file or expression",
	Long: `Tokenize a TokenScript program and print the resulting tokens, one
per line. Useful for debugging the lexer.

Examples:
  tokenscript lex tokens.ts
  tokenscript lex -e "variable x: Number = 16px;" --show-pos`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := specs.NewConfig()
	if err != nil {
		return err
	}

	l := lexer.New(input, lexer.WithUnitKeywords(cfg.UnitKeyword))
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		line := fmt.Sprintf("%-16s %q", tok.Type, tok.Literal)
		if tok.Unit != "" {
			line += fmt.Sprintf(" unit=%s", tok.Unit)
		}
		if showPos {
			line += fmt.Sprintf("  @%d:%d", tok.Pos.Line, tok.Pos.Column)
		}
		fmt.Println(line)
	}

	for _, lexErr := range l.Errors() {
		printError(lexErr.Error())
	}
	return nil
}
