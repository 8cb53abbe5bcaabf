package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╗ ┌─┐┌─┐┬┌─┌┬┐┬─┐┌─┐┬┬
  ╠╩╗├─┤│  ├┴┐ │ ├┬┘├─┤││
  ╚═╝┴ ┴└─┘┴ ┴ ┴ ┴└─┴ ┴┴┴─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "backtrail",
		Short: "Navigation-history coordination for remote clients",
		Long: `Backtrail coordinates navigation history for remote clients.

It bridges each client's native history stack over WebSocket and layers
a logical backlink chain, an awaitable navigation controller, and a
transition state machine on top of it:

  • Backlink chains independent of native pop semantics
  • Awaitable navigation operations with composite rewinds
  • Render gating via a reentrant navigation lock
  • Route-group-aware screen transitions
  • Prometheus metrics and OpenTelemetry tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Backtrail ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Printf("\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
