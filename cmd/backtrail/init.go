package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backtrail-dev/backtrail/internal/config"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default backtrail.json",
		Long: `Write a default backtrail.json to the given directory.

The generated file declares the server address, metrics settings, and
an empty route table to fill in.

Examples:
  backtrail init
  backtrail init ./myapp --name=myapp`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Application name")

	return cmd
}

func runInit(dir, name string) error {
	if config.Exists(dir) {
		errorMsg("%s already exists in %s", config.ConfigFileName, dir)
		return os.ErrExist
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	cfg := config.New()
	cfg.Name = name
	if cfg.Name == "" {
		abs, err := filepath.Abs(dir)
		if err == nil {
			cfg.Name = filepath.Base(abs)
		}
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("Created %s", path)
	info("Declare your routes, then run 'backtrail serve'")
	return nil
}
