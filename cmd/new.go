/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/scaffold"
	"github.com/josephgoksu/Guestflow/internal/ui"
	"github.com/josephgoksu/Guestflow/models"
)

var (
	newName  string
	newForce bool
)

var newCmd = &cobra.Command{
	Use:   "new <type> <file>",
	Short: "Create a starter experience document",
	Long: `Write a new experience document of the given type with a starter flow that
already validates. The format follows the file extension (.json, .yaml, .yml).

Examples:
  guestflow new ai_photo experiences/pets.yaml --name "Pet portraits"
  guestflow new survey feedback.json`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newName, "name", "", "experience name (defaults to the type label)")
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "overwrite an existing file")
}

func runNew(cmd *cobra.Command, args []string) error {
	typ, path := models.ExperienceType(args[0]), args[1]

	if !newForce {
		exists, err := afero.Exists(appFs, path)
		if err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	name := newName
	if name == "" {
		name = ui.TypeLabel(typ)
	}
	doc, err := scaffold.New(nil).Document(typ, name)
	if err != nil {
		return fmt.Errorf("%w (see 'guestflow types')", err)
	}
	if err := newStore().Save(path, doc); err != nil {
		return err
	}
	appLogger.Info("experience created", "path", path, "type", typ, "experience_id", doc.Experience.ID)

	if isJSON() {
		return printJSON(cmd, map[string]any{"path": path, "experience": doc.Experience})
	}
	if !isQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s experience %s (%d steps)\n",
			ui.Icon("✓", ui.StylePrefixDone), typ, ui.StyleTitle.Render(path), len(doc.Steps))
	}
	return nil
}
