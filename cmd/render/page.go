package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deniskrumko/render"
)

var pageFlags struct {
	data     string
	template string
	out      string
}

var pageCmd = &cobra.Command{
	Use:   "page [paths...]",
	Short: "Render views wrapped in the layout of their template",
	Example: `  render page default/home
  render page default/header default/home --data home.yaml --out home.html
  render page blog/post --template default`,
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)

	pageCmd.Flags().StringVarP(&pageFlags.data, "data", "d", "", "YAML or JSON file with the call data, - for stdin")
	pageCmd.Flags().StringVarP(&pageFlags.template, "template", "t", "", "template whose layout is rendered")
	pageCmd.Flags().StringVarP(&pageFlags.out, "out", "o", "", "output file (default is stdout)")
}

func runPage(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := loadData(cmd.InOrStdin(), pageFlags.data)
	if err != nil {
		return err
	}

	r, err := render.NewDir(cfg.Root, cfg.RendererOptions(logger)...)
	if err != nil {
		return err
	}
	for _, p := range args {
		r.AddPath(p)
	}
	r.SetData(data).ForceTemplate(pageFlags.template)

	var buf bytes.Buffer
	if err := r.Execute(&buf); err != nil {
		return fmt.Errorf("error rendering page: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), pageFlags.out, buf.Bytes())
}
