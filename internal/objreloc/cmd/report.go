package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"objreloc/internal/report"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Summarize functions and relocations as a table",
		Long: `Report prints a markdown table of every loaded function with its start,
size and relocation targets. On a terminal the table is rendered.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			names := make([]string, len(args))
			for i, a := range args {
				names[i] = filepath.Base(a)
			}
			md := report.Markdown(s.repo, strings.Join(names, ", "))

			raw, _ := cmd.Flags().GetBool("raw")
			if raw || !s.styled {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			width, _ := cmd.Flags().GetInt("width")
			out, err := report.Render(md, width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	reportCmd.Flags().Bool("raw", false, "Print markdown source instead of rendering it")
	reportCmd.Flags().Int("width", 100, "Wrap width for rendered output")
	return reportCmd
}
