package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/josephgoksu/Guestflow/internal/app"
	"github.com/josephgoksu/Guestflow/internal/policy"
	"github.com/josephgoksu/Guestflow/store"
)

// appFs is the filesystem every command reads and writes through.
var appFs = afero.NewOsFs()

func isJSON() bool {
	return viper.GetBool("json")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of stdout, or fallback when unknown.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return err
}

func newStore() *store.FileExperienceStore {
	return store.NewFileExperienceStore(appFs)
}

// newPolicyEngine loads the project's policies, or returns nil when policy
// evaluation is disabled.
func newPolicyEngine(ctx context.Context) (*policy.Engine, error) {
	cfg := GetConfig()
	if !cfg.Policy.Enabled {
		return nil, nil
	}
	engine, err := policy.NewEngine(ctx, policy.EngineConfig{
		PoliciesDir:   cfg.Project.PoliciesDir,
		PolicyPackage: cfg.Policy.Package,
		Fs:            appFs,
	})
	if err != nil {
		return nil, fmt.Errorf("load policies from %s: %w", cfg.Project.PoliciesDir, err)
	}
	if engine.PolicyCount() > 0 {
		appLogger.Debug("policies loaded", "count", engine.PolicyCount(), "package", cfg.Policy.Package)
	}
	return engine, nil
}

// newService builds the application service the way every command needs it.
func newService(ctx context.Context) (*app.ExperienceService, error) {
	engine, err := newPolicyEngine(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewExperienceService(app.Options{Policy: engine, Logger: appLogger}), nil
}
