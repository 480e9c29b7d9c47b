package main

import (
	"os"

	"go-easyapply-automation/internal/config"
	"go-easyapply-automation/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	cfgPath  string
	headless bool

	cfg *config.Config
	log *zap.Logger
}

// noPrompt leaves search terms empty for commands that do not search.
type noPrompt struct{}

func (noPrompt) Prompt(string) (string, error) { return "", nil }

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "jobdriver",
		Short:         "Crawl job listings and pre-fill applications up to human review",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var prompter config.Prompter = noPrompt{}
			if cmd.Name() == "crawl" {
				prompter = &config.StdinPrompter{In: os.Stdin, Out: os.Stdout}
			}

			cfg, err := config.Load(a.cfgPath, prompter)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.Headless = a.headless
			}
			a.cfg = cfg
			a.log = logger.NewStdout(cfg.Logger)
			a.log.Debug("🔧 Config loaded", zap.String("path", a.cfgPath), zap.Bool("headless", cfg.Headless))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", config.DefaultPath, "YAML config file")
	root.PersistentFlags().BoolVar(&a.headless, "headless", false, "run the browser without a window")

	root.AddCommand(
		newLoginCmd(a),
		newCrawlCmd(a),
		newApplyCmd(a),
		newOpenCmd(a),
	)
	return root
}
