package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/config"
	"github.com/oakwood-commons/exprsense/internal/formatter"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	var (
		output   string
		defaults bool
	)
	c := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration",
		Long: `Print the configuration in effect: the embedded defaults with the file from
--config-file (or $XDG_CONFIG_HOME/exprsense/config.yaml) merged on top.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
				return err
			}
			f, err := formatter.ParseFormat(output, formatter.FormatYAML, formatter.FormatJSON)
			if err != nil {
				return err
			}
			if o.run.Source.ConfigFile != "" {
				o.info(cmd, "config file: %s", o.run.Source.ConfigFile)
			}
			return writeValue(cmd, f, o.cfg)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json")
	c.Flags().BoolVar(&defaults, "defaults", false, "print the embedded default config file verbatim")
	return c
}

// writeValue renders v as YAML or JSON on stdout.
func writeValue(cmd *cobra.Command, f formatter.Format, v any) error {
	var (
		s   string
		err error
	)
	switch f {
	case formatter.FormatJSON:
		s, err = formatter.EncodeJSON(v)
	default:
		s, err = formatter.EncodeYAML(v, formatter.YAMLFormatOptions{Indent: 2})
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), s)
	return err
}
