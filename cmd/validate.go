/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/app"
	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/ui"
	"github.com/josephgoksu/Guestflow/internal/watch"
	"github.com/josephgoksu/Guestflow/types"
)

// fileReport is the --json shape of one validated document.
type fileReport struct {
	Path   string                 `json:"path"`
	Result types.ValidationResult `json:"result"`
	Error  string                 `json:"error,omitempty"`
}

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate experience documents",
	Long: `Validate one or more experience documents (JSON or YAML) against the rules
of their experience type, the variable references of their AI transform steps,
and any Rego policies in .guestflow/policies/.

Exits non-zero when any document has errors, or warnings when
validation.failOnWarnings is set.

Examples:
  guestflow validate experiences/pets.yaml
  guestflow validate experiences/*.json --json
  guestflow validate experiences/pets.yaml --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate whenever a file changes")
}

func runValidate(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	ok := validateFiles(cmd, svc, args)
	if !validateWatch {
		if !ok {
			return errReported
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndValidate(ctx, cmd, svc, args)
}

// validateFiles reports on every path and returns false if any failed.
func validateFiles(cmd *cobra.Command, svc *app.ExperienceService, paths []string) bool {
	s := newStore()
	failOnWarnings := GetConfig().Validation.FailOnWarnings

	reports := make([]fileReport, 0, len(paths))
	allOK := true
	for _, path := range paths {
		logger.SetLastDocument(path)
		report := fileReport{Path: path, Result: types.NewValidationResult()}

		doc, err := s.Load(path)
		if err == nil {
			report.Result, err = svc.Check(cmd.Context(), doc)
		}
		if err != nil {
			report.Error = err.Error()
			allOK = false
		} else if !report.Result.Valid || (failOnWarnings && len(report.Result.Warnings) > 0) {
			allOK = false
		}
		reports = append(reports, report)
	}

	if isJSON() {
		if err := printJSON(cmd, reports); err != nil {
			PrintError("write output", err)
		}
		return allOK
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(out, "%s  %s\n", ui.StyleTitle.Render(r.Path), ui.StyleError.Render(r.Error))
			continue
		}
		if isQuiet() && r.Result.Valid {
			continue
		}
		fmt.Fprintln(out, ui.RenderReport(r.Path, r.Result))
	}
	return allOK
}

func watchAndValidate(ctx context.Context, cmd *cobra.Command, svc *app.ExperienceService, paths []string) error {
	w, err := watch.New(watch.Config{
		Paths:  paths,
		Logger: appLogger,
		OnChange: func(changed []string) {
			appLogger.Debug("re-validating", "changed", changed)
			if !isJSON() {
				fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("── change detected ──"))
			}
			validateFiles(cmd, svc, paths)
		},
	})
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return err
	}

	if !isJSON() {
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("Watching for changes. Press Ctrl+C to stop."))
	}
	<-ctx.Done()
	return nil
}
