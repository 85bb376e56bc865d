package main

import (
	"os"

	"github.com/tokens-studio/go-tokenscript/cmd/tokenscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
