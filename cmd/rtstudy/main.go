// Package main is the entry point for the 16-qubit holographic RT study.
// In run mode it executes the full five-stage study and writes its figures;
// in test mode it runs the fixed Bell-state sanity check and exits with a
// non-zero status on any failure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qemar/qlab/internal/config"
	"github.com/qemar/qlab/internal/study"
	"github.com/qemar/qlab/pkg/logger"
)

func main() {
	var mode string

	rootCmd := &cobra.Command{
		Use:          "rtstudy",
		Short:        "16-qubit holographic entanglement study",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(mode)
		},
	}
	rootCmd.Flags().StringVar(&mode, "mode", "run", "execution mode: run or test")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(mode string) error {
	cfg, err := config.LoadStudy()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	switch mode {
	case "test":
		if err := study.SelfTest(log); err != nil {
			log.Error().Err(err).Msg("Self-test failed")
			return err
		}
		fmt.Println("SELF-TEST OK")
		return nil
	case "run":
		driver, err := study.NewDriver(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize study: %w", err)
		}
		return driver.Run()
	default:
		return fmt.Errorf("unknown mode %q (expected run or test)", mode)
	}
}
