package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/salary/internal/adapters/modelstore"
)

func newInspectCmd() *cobra.Command {
	var (
		artifact modelFlags
		output   string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate the model artifact and print its metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := modelstore.LoadFile(artifact.path, artifact.sha256)
			if err != nil {
				return err
			}
			info := m.Info()
			out := cmd.OutOrStdout()

			switch output {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(info); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "table":
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "MODEL\t%s\n", info.ModelID)
				fmt.Fprintf(w, "VERSION\t%s\n", info.Version)
				fmt.Fprintf(w, "PATH\t%s\n", info.Path)
				fmt.Fprintf(w, "SHA256\t%s\n", info.SHA256)
				fmt.Fprintf(w, "INTERCEPT\t%g\n", info.Intercept)
				fmt.Fprintln(w, "FEATURE\tCOEFFICIENT")
				for i, f := range info.Features {
					fmt.Fprintf(w, "%s\t%g\n", f, info.Coefficients[i])
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown output %q: want table, json or yaml", output)
			}
		},
	}

	artifact.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}
