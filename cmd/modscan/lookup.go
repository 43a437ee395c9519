package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"modscan/internal/config"
	"modscan/internal/pipeline"
	"modscan/internal/provenance"
)

func newLookupCmd(newPipe func() (*pipeline.Pipeline, config.Config, error), jsonOutput *bool) *cobra.Command {
	var sourceURL string

	cmd := &cobra.Command{
		Use:     "lookup <archive>",
		Aliases: []string{"id", "identify"},
		Short:   "Identify a single mod archive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := newPipe()
			if err != nil {
				return err
			}
			if sourceURL != "" {
				origin := provenance.Classify(sourceURL)
				p.OriginFor = func(string) provenance.Origin { return origin }
			}
			report, err := p.RunFiles(context.Background(), []string{args[0]})
			if err != nil {
				return err
			}
			res := report.Results[0]
			if *jsonOutput {
				return print(true, res, "")
			}
			fmt.Printf("%s\n", res.Record.Path)
			fmt.Printf("  match:     %s", res.Match.Type)
			if res.Match.Name != "" {
				fmt.Printf(" (%s)", res.Match.Name)
			}
			fmt.Println()
			if res.Match.URL != "" {
				fmt.Printf("  project:   %s\n", res.Match.URL)
			}
			fmt.Printf("  integrity: %s\n", res.Verdict.Status)
			if res.Finding != nil {
				fmt.Printf("  signatures: %s\n", strings.Join(res.Finding.Tokens, ", "))
			}
			if res.Origin.Source != "" && res.Origin.Source != provenance.SourceUnknown {
				fmt.Printf("  origin:    %s\n", res.Origin.Source)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceURL, "url", "", "download URL the archive came from")
	return cmd
}
