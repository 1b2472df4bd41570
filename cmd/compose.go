/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/internal/ui"
	"github.com/josephgoksu/Guestflow/models"
)

var (
	composeStep    string
	composeSession string
	composeEvent   string
	composeSet     []string
)

var composeCmd = &cobra.Command{
	Use:   "compose <file>",
	Short: "Compose the final prompt of an AI transform step",
	Long: `Resolve the variables of an AI transform step from session values and event
metadata, and print the prompt that would be sent to the AI provider.

Session files map step ids to answers: a string, a list of selections, or
{text, selections, multiSelect, label}. Event files carry name, companyName,
projectName, date and location.

Examples:
  guestflow compose pets.yaml --step transform --session session.json --event event.yaml
  guestflow compose pets.yaml --step transform --set pets=dog --set pets=cat`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringVar(&composeStep, "step", "", "id of the ai-transform step (defaults to the only one)")
	composeCmd.Flags().StringVar(&composeSession, "session", "", "session values file (JSON or YAML)")
	composeCmd.Flags().StringVar(&composeEvent, "event", "", "event metadata file (JSON or YAML)")
	composeCmd.Flags().StringArrayVar(&composeSet, "set", nil, "session value as stepId=value; repeat a step id for multi-select")
}

func runCompose(cmd *cobra.Command, args []string) error {
	s := newStore()
	logger.SetLastDocument(args[0])

	doc, err := s.Load(args[0])
	if err != nil {
		return err
	}

	stepID := composeStep
	if stepID == "" {
		if stepID, err = onlyTransformStep(doc); err != nil {
			return err
		}
	}

	session := prompt.SessionValues{}
	if composeSession != "" {
		if session, err = s.LoadSession(composeSession); err != nil {
			return err
		}
	}
	if err := applySetFlags(session, composeSet); err != nil {
		return err
	}

	var event models.EventMeta
	if composeEvent != "" {
		if event, err = s.LoadEvent(composeEvent); err != nil {
			return err
		}
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	out, err := svc.Compose(cmd.Context(), doc, stepID, session, event)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd, map[string]string{"stepId": stepID, "prompt": out})
	}
	if isTerminal(cmd.OutOrStdout()) {
		width := terminalWidth(cmd.OutOrStdout(), 80) - 4
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderPromptPanel(stepID, out, width))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func onlyTransformStep(doc models.Document) (string, error) {
	var ids []string
	for _, st := range doc.Steps {
		if st.Type == models.StepAITransform {
			ids = append(ids, st.ID)
		}
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%s has no ai-transform step", doc.Experience.ID)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("several ai-transform steps (%s); pick one with --step", strings.Join(ids, ", "))
}

// applySetFlags merges --set values into session. A step id given more than
// once becomes a multi-select answer.
func applySetFlags(session prompt.SessionValues, sets []string) error {
	values := map[string][]string{}
	var order []string
	for _, kv := range sets {
		id, value, ok := strings.Cut(kv, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return fmt.Errorf("invalid --set %q, want stepId=value", kv)
		}
		if _, seen := values[id]; !seen {
			order = append(order, id)
		}
		values[id] = append(values[id], value)
	}
	for _, id := range order {
		if v := values[id]; len(v) == 1 {
			session[id] = prompt.TextValue(v[0])
		} else {
			session[id] = prompt.MultiSelectValue(v...)
		}
	}
	return nil
}
