package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"modscan/internal/audit"
	"modscan/internal/config"
	"modscan/internal/integrity"
	"modscan/internal/logging"
	"modscan/internal/pipeline"
	"modscan/internal/registry"
	"modscan/internal/resolver"
	"modscan/internal/signature"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	defer logging.Sync()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	newPipe := func() (*pipeline.Pipeline, config.Config, error) {
		return buildPipeline(configPath)
	}

	cmd := &cobra.Command{
		Use:           "modscan",
		Short:         "Resolve, audit and scan Minecraft mod archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newScanCmd(newPipe, &jsonOutput))
	cmd.AddCommand(newLookupCmd(newPipe, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))

	return cmd
}

// buildPipeline wires the pipeline from config: logging, signature corpus,
// registry clients, resolver and audit log. A corpus compile failure is fatal
// with exit code 2.
func buildPipeline(configPath string) (*pipeline.Pipeline, config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(path)
	if err != nil {
		return nil, config.Config{}, err
	}
	if err := logging.Init(cfg.Logging.Level); err != nil {
		return nil, config.Config{}, err
	}

	corpus, err := signature.Compile(cfg.Scan.DisabledTokens)
	if err != nil {
		return nil, config.Config{}, &exitError{code: 2, msg: err.Error()}
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	reg := registry.New(cfg.Registry.BaseURL, httpClient, cfg.Registry.RetryAttempts)

	threshold := cfg.Integrity.TamperThreshold
	if threshold <= 0 {
		threshold = integrity.DefaultTamperThreshold
	}

	p := &pipeline.Pipeline{
		Resolver:  resolver.New(reg),
		Secondary: registry.NewSecondary(cfg.Registry.SecondaryURL, httpClient, cfg.Registry.RetryAttempts),
		Scanner:   signature.NewScanner(corpus),
		Threshold: threshold,
		Workers:   cfg.Scan.Workers,
		Audit:     audit.New(cfg.Scan.AuditLog),
	}
	return p, cfg, nil
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
