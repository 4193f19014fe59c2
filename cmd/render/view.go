package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deniskrumko/render"
)

var viewFlags struct {
	data string
	out  string
}

var viewCmd = &cobra.Command{
	Use:   "view PATH",
	Short: "Render a single view without layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVarP(&viewFlags.data, "data", "d", "", "YAML or JSON file with the view data, - for stdin")
	viewCmd.Flags().StringVarP(&viewFlags.out, "out", "o", "", "output file (default is stdout)")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := loadData(cmd.InOrStdin(), viewFlags.data)
	if err != nil {
		return err
	}

	r, err := render.NewDir(cfg.Root, cfg.RendererOptions(logger)...)
	if err != nil {
		return err
	}

	out := r.View(args[0], data)
	if err := r.Err(); err != nil {
		return fmt.Errorf("error rendering view: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), viewFlags.out, []byte(out))
}
