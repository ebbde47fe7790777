package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/config"
	"github.com/jackzampolin/ballotmaker/internal/home"
	"github.com/jackzampolin/ballotmaker/internal/output"
	"github.com/jackzampolin/ballotmaker/internal/svcctx"
	"github.com/jackzampolin/ballotmaker/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ballotmaker",
	Short: "Extract ballot-ready data from NIST election definitions",
	Long: `ballotmaker reads a NIST SP 1500-100 election definition (JSON) and
extracts the data a ballot is rendered from: for every ballot style, its
contests in ballot order with resolved districts, candidates, parties and
measure text.

Candidate selections become slates. Running mates who share a party list
that party once; fusion tickets keep every party.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(svcctx.WithServices(cmd.Context(), svc))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ballotmaker/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "ballotmaker home directory (default: ~/.ballotmaker)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format: yaml or json (default: output.format from config)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(schemasCmd)
}

func newServices(cmd *cobra.Command) (*svcctx.Services, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	format := cfg.Output.Format
	if outputFormat != "" {
		format = outputFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if used := mgr.ConfigFile(); used != "" {
		logger.Debug("loaded config", "file", used)
	}
	return &svcctx.Services{Config: mgr, Logger: logger, Home: h, Format: f}, nil
}

// write encodes data to the command's stdout in the selected format.
func write(cmd *cobra.Command, data any) error {
	if err := output.Write(cmd.OutOrStdout(), svcctx.FormatFrom(cmd.Context()), data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
