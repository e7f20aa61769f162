// Command shaderls is a Language Server Protocol server for Minecraft
// shader packs: it maintains a workspace's #include graph, flattens and
// validates each shader root against an external GLSL driver, and maps
// diagnostics back to their originating source file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Strum355/vscode-mc-shader/internal/config"
	"github.com/Strum355/vscode-mc-shader/internal/logging"
	"github.com/Strum355/vscode-mc-shader/internal/lspserver"
	"github.com/Strum355/vscode-mc-shader/internal/validator"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath    string
		validatorPath string
		verbosity     int
		logPath       string
	)

	root := &cobra.Command{
		Use:           "shaderls",
		Short:         "Language server for Minecraft shader pack GLSL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if validatorPath != "" {
				cfg.ValidatorPath = validatorPath
			}
			if configPath == "" || cmd.Flags().Changed("verbosity") {
				cfg.Verbosity = verbosity
			}
			if logPath != "" {
				cfg.LogPath = logPath
			}

			logging.Configure(cfg.Verbosity, cfg.LogPath)

			adapter := validator.NewExecAdapter(cfg.ValidatorPath)
			srv := lspserver.New(adapter)
			return srv.RunStdio()
		},
	}
	serve.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	serve.Flags().StringVar(&validatorPath, "validator", "", "path to the external GLSL validator binary")
	serve.Flags().IntVar(&verbosity, "verbosity", 1, "commonlog verbosity (0 disables logging)")
	serve.Flags().StringVar(&logPath, "log-file", "", "redirect logging to this file instead of stderr")

	root.AddCommand(serve)
	return root
}
