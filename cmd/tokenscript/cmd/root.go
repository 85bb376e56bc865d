package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tokenscript",
	Short: "TokenScript interpreter and design-token resolver",
	Long: `tokenscript runs the TokenScript expression language used to author
design-token formulas: arithmetic on dimensioned quantities, string
manipulation, collection construction, control flow, and color
construction driven by JSON color specifications.

It also resolves DTCG-shaped design-token documents, expanding token
references and formulas into final leaf values.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

var errorHeading = color.New(color.FgRed, color.Bold)

func printError(msg string) {
	errorHeading.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, msg)
}
