/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/ops"
	"github.com/fulmenhq/rsaforge/pkg/buildinfo"
	"github.com/fulmenhq/rsaforge/pkg/config"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/spf13/cobra"
)

// app carries state shared by the commands of one root command tree.
type app struct {
	cfg *config.Config
}

// applyDefaults fills request fields the caller left blank from config.
func (a *app) applyDefaults(req engine.Request) engine.Request {
	if req.BusinessName == "" {
		req.BusinessName = a.cfg.Generation.BusinessName
	}
	if req.Tone == "" {
		req.Tone = engine.Tone(a.cfg.Generation.Tone)
	}
	return req
}

type subcommand struct {
	group ops.CommandGroup
	build func(*app) *cobra.Command
}

// subcommands lists every command in help-screen order.
var subcommands = []subcommand{
	{ops.GroupGeneration, newPreviewCmd},
	{ops.GroupGeneration, newGenerateCmd},
	{ops.GroupGeneration, newPlanCmd},
	{ops.GroupAnalysis, newScoreCmd},
	{ops.GroupAnalysis, newKeywordsCmd},
	{ops.GroupSupport, newVersionCmd},
}

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	a := &app{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:   buildinfo.BinaryName,
		Short: "Responsive search ad copy generator with a quality gate",
		Long: `rsaforge generates Dutch responsive search ad assets (headlines, descriptions,
display paths and extensions) for a service business and scores them against
a quality gate, regenerating until the gate passes.

Examples:
   rsaforge preview glaszetter friesland "glaszetter offerte"
   rsaforge generate request.yaml --format markdown
   rsaforge generate --batch "requests/**/*.yaml" --format json
   rsaforge score bundle.json --service glaszetter --location friesland --policy brand.yaml
   rsaforge plan request.yaml --probe --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initializeLogger(cmd); err != nil {
				return err
			}
			return a.loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: rsaforge.yaml in ., $HOME or $RSAFORGE_HOME/config)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate(buildinfo.BinaryName + " {{.Version}}\n")

	reg := ops.NewRegistry()
	for _, sc := range subcommands {
		sub := sc.build(a)
		cmd.AddCommand(sub)
		if err := reg.Register(sub.Name(), sc.group, sub, sub.Short); err != nil {
			panic(fmt.Sprintf("register %s command: %v", sub.Name(), err))
		}
	}

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c != cmd {
			defaultHelp(c, args)
			return
		}
		c.Println(c.Long)
		for _, g := range ops.Groups {
			c.Println()
			c.Println(g.Title() + ":")
			for _, r := range reg.GetCommandsByGroup(g) {
				c.Printf("  %-12s %s\n", r.Name, r.Description)
			}
		}
		c.Println()
		c.Println("Flags:")
		c.Print(c.LocalFlags().FlagUsages())
	})
	return cmd
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	a.cfg = cfg
	logger.Debug("configuration loaded",
		logger.String("business_name", cfg.Generation.BusinessName),
		logger.Int("max_iterations", cfg.Gate.MaxIterations),
		logger.String("format", cfg.Output.Format),
	)
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code matching the error.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel, err := logger.ParseLevel(logLevelStr)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	return logger.Initialize(logger.Config{
		Level:     logLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: buildinfo.BinaryName,
	})
}
