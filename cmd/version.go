package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/formatter"
	"github.com/oakwood-commons/exprsense/pkg/settings"
)

type versionData struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func buildVersionData() versionData {
	v := settings.VersionInformation
	return versionData{
		Name:      settings.CliBinaryName,
		Version:   v.BuildVersion,
		Commit:    v.Commit,
		BuildTime: v.BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// cliVersionString builds the one-line version used by "version" and --version.
func cliVersionString() string {
	d := buildVersionData()
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", d.Name, d.Version, d.Commit, d.BuildTime, d.GoVersion)
}

func newVersionCmd() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "version",
		Short: "Print " + settings.CliBinaryName + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
				return nil
			}
			f, err := formatter.ParseFormat(output, formatter.FormatYAML, formatter.FormatJSON)
			if err != nil {
				return err
			}
			return writeValue(cmd, f, buildVersionData())
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "output format: yaml|json (default: one line)")
	return c
}
