package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"modscan/internal/config"
	"modscan/internal/fsutil"
	"modscan/internal/pipeline"
)

func newScanCmd(newPipe func() (*pipeline.Pipeline, config.Config, error), jsonOutput *bool) *cobra.Command {
	var workers int
	var output string
	var offline bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:     "scan <dir>",
		Aliases: []string{"check", "audit"},
		Short:   "Scan a directory of mod archives",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := newPipe()
			if err != nil {
				return err
			}
			if workers > 0 {
				p.Workers = workers
			}
			p.Offline = offline
			if !noProgress && !*jsonOutput {
				var bar *progressbar.ProgressBar
				p.Progress = func(done, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("scanning"),
							progressbar.OptionSetWidth(40),
							progressbar.OptionShowCount(),
							progressbar.OptionThrottle(100*time.Millisecond),
						)
					}
					bar.Set(done)
				}
			}

			report, err := p.Run(context.Background(), args[0])
			if err != nil {
				return err
			}
			if output != "" {
				blob, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				if err := fsutil.AtomicWrite(output, append(blob, '\n'), 0o644); err != nil {
					return err
				}
			}
			if *jsonOutput {
				return print(true, report, "")
			}
			printSets(report)
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent archive workers (0 = config value)")
	cmd.Flags().StringVar(&output, "output", "", "write the full JSON report to a file")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip remote registry lookups")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func printSets(report *pipeline.Report) {
	fmt.Printf("\nscanned %d archives (run %s)\n", len(report.Results), report.RunID)
	section := func(title string, paths []string) {
		fmt.Printf("%s (%d):\n", title, len(paths))
		for _, p := range paths {
			fmt.Printf("  - %s\n", p)
		}
	}
	section("verified", report.Sets.Verified)
	section("unknown", report.Sets.Unknown)
	section("suspicious", report.Sets.Suspicious)
	section("tampered", report.Sets.Tampered)
}
