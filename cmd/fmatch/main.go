package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Ning0612/fmatch/internal/cmd"
	"github.com/Ning0612/fmatch/internal/domain"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// check already printed which targets changed
		if !errors.Is(err, domain.ErrChanged) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
