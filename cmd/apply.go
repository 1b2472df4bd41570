/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/app"
	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/ui"
)

var (
	applyOut    string
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <file> <update>",
	Short: "Apply an update to an experience, saving only if it stays valid",
	Long: `Apply a full or partial update (name, steps, stepsOrder) to an experience
document. The result is validated first and the save is refused when it has
errors. Changing the experience type is never allowed.

Examples:
  guestflow apply pets.yaml rename.yaml
  guestflow apply pets.yaml reorder.json --dry-run
  guestflow apply pets.yaml update.yaml --out pets-v2.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "write the result here instead of over <file>")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "validate without saving")
}

func runApply(cmd *cobra.Command, args []string) error {
	s := newStore()
	path, updatePath := args[0], args[1]
	logger.SetLastDocument(path)

	current, err := s.Load(path)
	if err != nil {
		return err
	}
	var update app.Update
	if err := s.DecodeFile(updatePath, &update); err != nil {
		return err
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	next, result, err := svc.Submit(cmd.Context(), current, update)
	if err != nil && !errors.Is(err, app.ErrInvalidExperience) {
		return err
	}
	rejected := err != nil

	target := path
	if applyOut != "" {
		target = applyOut
	}
	saved := !rejected && !applyDryRun
	if saved {
		if err := s.Save(target, next); err != nil {
			return err
		}
	}

	if isJSON() {
		if err := printJSON(cmd, map[string]any{"path": target, "saved": saved, "result": result}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderReport(path, result))
		switch {
		case rejected:
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleError.Render("Not saved: fix the errors above first."))
		case applyDryRun:
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("Dry run: nothing written."))
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", ui.Icon("✓", ui.StylePrefixDone), target)
		}
	}

	if rejected {
		return errReported
	}
	return nil
}
