// Command emitd serves the emit showcase and renders JSON documents as HTML from the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/swdunlop/emit-go/internal/config"
)

func main() {
	var cfgPath string
	rootCmd := &cobra.Command{
		Use:   `emitd`,
		Short: `Serve and render HTML built with emit`,
		Long: `emitd demonstrates emit components over HTTP and renders JSON documents as HTML dataviews.

Configuration is read from a TOML file (see --config), then EMIT_LISTEN and EMIT_LOG_LEVEL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, `config`, ``, `path to a TOML config file`)
	load := func() (config.Config, error) { return config.Load(cfgPath) }

	rootCmd.AddCommand(
		serveCmd(load),
		renderCmd(load),
		unpkgCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "!! %v\n", err)
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger, which is also the default context logger for requests.
func setupLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return log.Logger
}
