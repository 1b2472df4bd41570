/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/Guestflow/internal/config"
	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/ui"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"

	// appLogger is built from config before every command runs.
	appLogger = logger.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "guestflow",
	Short: "Guestflow validates guest experiences and composes their AI prompts.",
	Long: `Guestflow checks experience documents (ordered capture, question, AI transform
and reward steps) against the rules of their experience type, and composes the
final prompt of each AI transform step from guest answers and event details.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()

	err := rootCmd.Execute()
	appLogger.Sync()
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		PrintError(err.Error(), err)
	}
	os.Exit(1)
}

// GetVersion returns the CLI version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.guestflow/.guestflow.yaml or $HOME/.guestflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only print errors")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// setupCommand wires crash context, logging and output styling for the
// command about to run.
func setupCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	logger.SetBasePath(config.ProjectDir(cfg.Project.RootDir))
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())

	level := cfg.Log.Level
	if isVerbose() {
		level = "debug"
	}
	l, err := logger.New(logger.Options{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	appLogger = l

	ui.SetPlain(isJSON() || !isTerminal(cmd.OutOrStdout()))
	return nil
}
