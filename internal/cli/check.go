package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"socheck/internal/analyze"
	"socheck/internal/check"
	"socheck/internal/report"
)

// newCheckCmd is the quick linker-flag verification: just the summary
// lines, exit status 1 when any checked flag is not in effect.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.so>",
		Short: "Quick pass/fail check of the linker flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := loggerFor(cfg, "check")

			a := &analyze.Analyzer{
				Resolver: cfg.Resolver(),
				Timeout:  cfg.Timeout(),
				Log:      log,
			}
			rep, err := a.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, fs := range rep.Summary.Flags {
				switch fs.Status {
				case check.StatusPass:
					fmt.Fprintf(out, "PASS %s\n", fs.Flag)
				case check.StatusFail:
					fmt.Fprintf(out, "FAIL %s\n", fs.Flag)
				default:
					fmt.Fprintf(out, "???? %s\n", fs.Flag)
				}
			}
			verify := report.VerifyCommands(args[0])
			for _, issue := range rep.Summary.Issues {
				fmt.Fprintf(out, "fix: %s\n", issue.Remediation)
				if vc, ok := verify[issue.Dimension]; ok {
					fmt.Fprintf(out, "verify: %s\n", vc)
				}
			}
			if len(rep.Summary.Issues) > 0 {
				return fmt.Errorf("%d check(s) failed", len(rep.Summary.Issues))
			}
			return nil
		},
	}
}
