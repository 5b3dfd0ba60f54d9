package main

import (
	"os"
	"slices"
	"strings"

	"github.com/kottz/ekman/internal/cli"
	"github.com/kottz/ekman/internal/model"
)

// valueFlags take the next token as their value.
var valueFlags = []string{"--config", "--backend", "--server", "--db", "--log-level", "--format", "--day"}

func isDay(s string) bool {
	_, err := model.ParseDay(strings.TrimSpace(s))
	return err == nil
}

// rewriteDayArgs makes `ekman <YYYY-MM-DD>` work like `ekman --day <YYYY-MM-DD>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first, so look for the first
// positional token rather than argv[1].
func rewriteDayArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && slices.Contains(valueFlags, a) {
				i++
			}
			continue
		}

		// First positional token.
		if isDay(a) {
			return slices.Insert(slices.Clone(argv), i, "--day")
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDayArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
