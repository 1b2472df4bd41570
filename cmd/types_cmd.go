/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/ui"
	"github.com/josephgoksu/Guestflow/models"
)

var typesCmd = &cobra.Command{
	Use:   "types [type]",
	Short: "List experience types and their step rules",
	Long: `Without arguments, list every experience type with its required and
recommended steps. With a type, show its full definition including the
allowed step types.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	reg := registry.Default()

	if len(args) == 0 {
		if isJSON() {
			return printJSON(cmd, reg.Definitions())
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderTypes(reg.Definitions()))
		return nil
	}

	def, ok := reg.DefinitionFor(models.ExperienceType(args[0]))
	if !ok {
		return fmt.Errorf("unknown experience type %q (see 'guestflow types')", args[0])
	}
	if isJSON() {
		return printJSON(cmd, def)
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RenderDefinition(def))
	return nil
}
