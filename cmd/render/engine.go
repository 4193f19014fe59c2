package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var engineFlags struct {
	data string
	out  string
}

var engineCmd = &cobra.Command{
	Use:   "engine VIEW",
	Short: "Render a view with the pongo2 engine",
	Example: `  render engine home --dir views
  render engine mail/welcome --dir views --dir shared --data user.yaml --charset iso-8859-1`,
	Args: cobra.ExactArgs(1),
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(engineCmd)

	flags := engineCmd.Flags()
	flags.StringVarP(&engineFlags.data, "data", "d", "", "YAML or JSON file with the view data, - for stdin")
	flags.StringVarP(&engineFlags.out, "out", "o", "", "output file (default is stdout)")
	flags.StringSlice("dir", nil, "template directory, can be repeated")
	flags.String("suffix", ".html", "suffix appended to the view name")
	flags.Bool("debug", false, "parse templates on every render")
	flags.Bool("autoescape", false, "escape variables")
	flags.Bool("strict-variables", false, "fail on undefined variables")
	flags.String("charset", "utf-8", "output charset")
	flags.String("cache", "", "cache directory, empty to disable")

	viper.BindPFlag("engine.directories", flags.Lookup("dir"))
	viper.BindPFlag("engine.suffix", flags.Lookup("suffix"))
	viper.BindPFlag("engine.options.debug", flags.Lookup("debug"))
	viper.BindPFlag("engine.options.autoescape", flags.Lookup("autoescape"))
	viper.BindPFlag("engine.options.strict_variables", flags.Lookup("strict-variables"))
	viper.BindPFlag("engine.options.charset", flags.Lookup("charset"))
	viper.BindPFlag("engine.options.cache", flags.Lookup("cache"))
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := loadData(cmd.InOrStdin(), engineFlags.data)
	if err != nil {
		return err
	}

	e := cfg.NewEngine(logger)
	if dir := cfg.Engine.Options.Cache; dir != "" {
		if err := e.SetCache(true, dir); err != nil {
			return err
		}
	}

	out, err := e.SetData(data).SetPath(args[0]).Render()
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), engineFlags.out, []byte(out))
}
