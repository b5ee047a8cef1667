package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"socheck/internal/analyze"
	"socheck/internal/output"
	"socheck/internal/render"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonPath string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.so>",
		Short: "Full compatibility report for a shared object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := loggerFor(cfg, "analyze")

			a := &analyze.Analyzer{
				Resolver: cfg.Resolver(),
				Timeout:  cfg.Timeout(),
				Log:      log,
			}
			rep, err := a.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Report(rep))

			if jsonPath != "" {
				if err := output.WriteReportJSON(jsonPath, rep); err != nil {
					return err
				}
				log.Info().Str("path", jsonPath).Msg("wrote JSON report")
			}
			if outDir != "" {
				if err := output.WriteReportDir(outDir, rep); err != nil {
					return err
				}
				log.Info().Str("dir", outDir).Msg("wrote report directory")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "also write the report as JSON to this path")
	cmd.Flags().StringVar(&outDir, "out", "", "also write report.json into this directory")
	return cmd
}
