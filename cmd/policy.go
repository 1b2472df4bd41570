/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/Guestflow/internal/policy"
	"github.com/josephgoksu/Guestflow/internal/ui"
)

// DefaultRegoPolicy is the policy written by `guestflow policy init`.
const DefaultRegoPolicy = `# Guestflow default policy
# deny messages block validation and saves; warn messages are advisory.
# Learn more: https://www.openpolicyagent.org/docs/latest/policy-language/
#
# Built-ins:
#   guestflow.placeholders(prompt)            placeholder names used by a prompt
#   guestflow.step_allowed(exp_type, step)    whether a step type fits the experience

package guestflow.policy

import rego.v1

blocked_terms := {"celebrity", "nude", "logo of"}

transform_steps contains step if {
    some step in input.steps
    step.type == "ai-transform"
}

deny contains msg if {
    some step in transform_steps
    some term in blocked_terms
    contains(lower(step.config.prompt), term)
    msg := sprintf("step %s: prompt mentions blocked term %q", [step.id, term])
}

warn contains msg if {
    some step in transform_steps
    count(guestflow.placeholders(step.config.prompt)) == 0
    msg := sprintf("step %s: prompt uses no variables, every guest gets the same transform", [step.id])
}

warn contains msg if {
    object.get(input.experience, "name", "") == ""
    msg := "experience has no name"
}
`

// DefaultRegoPolicyTest exercises DefaultRegoPolicy with `guestflow policy test`.
const DefaultRegoPolicyTest = `package guestflow.policy_test

import rego.v1

import data.guestflow.policy

test_blocked_term_denied if {
    count(policy.deny) == 1 with input as {
        "experience": {"type": "ai_photo", "name": "Gala"},
        "steps": [{"id": "ai", "type": "ai-transform", "config": {"prompt": "Guest next to a Celebrity {{x}}"}}]
    }
}

test_clean_prompt_allowed if {
    count(policy.deny) == 0 with input as {
        "experience": {"type": "ai_photo", "name": "Gala"},
        "steps": [{"id": "ai", "type": "ai-transform", "config": {"prompt": "A {{style}} portrait"}}]
    }
}

test_static_prompt_warns if {
    count(policy.warn) == 1 with input as {
        "experience": {"type": "ai_photo", "name": "Gala"},
        "steps": [{"id": "ai", "type": "ai-transform", "config": {"prompt": "A watercolor portrait"}}]
    }
}
`

var policyInitForce bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage OPA policies for experience guardrails",
	Long: `Manage Rego policies evaluated on every validation.

Policies live in .guestflow/policies/ and must define deny and/or warn rules
in the guestflow.policy package (see policy.package). Each deny message is
reported as a POLICY_VIOLATION error, each warn message as a POLICY_WARNING.`,
}

var policyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default policy and its tests",
	Long: `Create .guestflow/policies/default.rego and default_test.rego.

The default policy:
  • Denies ai-transform prompts that mention blocked terms
  • Warns on prompts that use no variables
  • Warns on experiences without a name`,
	Args: cobra.NoArgs,
	RunE: runPolicyInit,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policy files",
	Args:  cobra.NoArgs,
	RunE:  runPolicyList,
}

var policyCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Evaluate experience documents against the policies only",
	Long: `Evaluate documents against the loaded policies without running the
structural validation. Useful while writing a policy.

Examples:
  guestflow policy check experiences/pets.yaml
  guestflow policy check experiences/*.json --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPolicyCheck,
}

var policyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the Rego unit tests in the policies directory",
	Long: `Run every test_* rule found in *_test.rego files next to the policies.

Examples:
  guestflow policy test
  guestflow policy test --json`,
	Args: cobra.NoArgs,
	RunE: runPolicyTest,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyInitCmd, policyListCmd, policyCheckCmd, policyTestCmd)
	policyInitCmd.Flags().BoolVarP(&policyInitForce, "force", "f", false, "overwrite existing files")
}

func policiesDir() string {
	return GetConfig().Project.PoliciesDir
}

func runPolicyInit(cmd *cobra.Command, args []string) error {
	dir := policiesDir()
	if err := appFs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create policies directory: %w", err)
	}

	files := []struct{ name, content string }{
		{"default.rego", DefaultRegoPolicy},
		{"default_test.rego", DefaultRegoPolicyTest},
	}
	var created, skipped []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		exists, err := afero.Exists(appFs, path)
		if err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
		if exists && !policyInitForce {
			skipped = append(skipped, path)
			continue
		}
		if err := afero.WriteFile(appFs, path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		created = append(created, path)
	}

	if isJSON() {
		return printJSON(cmd, map[string]any{"created": created, "skipped": skipped})
	}
	out := cmd.OutOrStdout()
	for _, p := range created {
		fmt.Fprintf(out, "%s Created %s\n", ui.Icon("✓", ui.StylePrefixDone), p)
	}
	for _, p := range skipped {
		fmt.Fprintf(out, "%s %s already exists (use --force to overwrite)\n", ui.Icon("!", ui.StylePrefixWarn), p)
	}
	return nil
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	dir := policiesDir()
	policies, err := policy.NewLoader(appFs, dir).LoadAll()
	if err != nil {
		return fmt.Errorf("load policies: %w", err)
	}

	if isJSON() {
		type entry struct {
			Name string `json:"name"`
			Path string `json:"path"`
			Test bool   `json:"test"`
		}
		entries := make([]entry, 0, len(policies))
		for _, p := range policies {
			entries = append(entries, entry{Name: p.Name, Path: p.Path, Test: p.IsTest()})
		}
		return printJSON(cmd, map[string]any{
			"policiesDir": dir,
			"count":       len(entries),
			"policies":    entries,
			"builtins":    policy.BuiltinNames(),
		})
	}

	out := cmd.OutOrStdout()
	if len(policies) == 0 {
		fmt.Fprintln(out, "No policies found.")
		fmt.Fprintln(out, "Run 'guestflow policy init' to create the default policy.")
		return nil
	}
	fmt.Fprintf(out, "Policies directory: %s\n\n", dir)
	for _, p := range policies {
		kind := "policy"
		if p.IsTest() {
			kind = "test"
		}
		fmt.Fprintf(out, "  • %s %s\n", p.Name, ui.StyleSubtle.Render("("+kind+")"))
	}
	fmt.Fprintf(out, "\nBuilt-ins: %s\n", strings.Join(policy.BuiltinNames(), ", "))
	return nil
}

type policyReport struct {
	Path     string           `json:"path"`
	Decision *policy.Decision `json:"decision,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()
	engine, err := policy.NewEngine(ctx, policy.EngineConfig{
		PoliciesDir:   cfg.Project.PoliciesDir,
		PolicyPackage: cfg.Policy.Package,
		Fs:            appFs,
	})
	if err != nil {
		return err
	}
	if engine.PolicyCount() == 0 {
		if isJSON() {
			return printJSON(cmd, map[string]any{"policies": 0, "reports": []policyReport{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No policies loaded. Run 'guestflow policy init' first.")
		return nil
	}

	s := newStore()
	reports := make([]policyReport, 0, len(args))
	denied := false
	for _, path := range args {
		report := policyReport{Path: path}
		doc, err := s.Load(path)
		if err == nil {
			report.Decision, err = engine.EvaluateExperience(ctx, doc.Experience, doc.OrderedSteps())
		}
		if err != nil {
			report.Error = err.Error()
			denied = true
		} else if !report.Decision.IsAllowed() {
			denied = true
		}
		reports = append(reports, report)
	}

	if isJSON() {
		if err := printJSON(cmd, map[string]any{"policies": engine.PolicyCount(), "reports": reports}); err != nil {
			return err
		}
	} else {
		printPolicyReports(cmd, reports)
	}
	if denied {
		return errReported
	}
	return nil
}

func printPolicyReports(cmd *cobra.Command, reports []policyReport) {
	out := cmd.OutOrStdout()
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(out, "%s %s: %s\n", ui.Icon("✗", ui.StylePrefixError), r.Path, r.Error)
			continue
		case r.Decision.IsAllowed():
			fmt.Fprintf(out, "%s %s\n", ui.Icon("✓", ui.StylePrefixDone), r.Path)
		default:
			fmt.Fprintf(out, "%s %s\n", ui.Icon("✗", ui.StylePrefixError), r.Path)
		}
		for _, v := range r.Decision.Violations {
			fmt.Fprintf(out, "    deny: %s\n", v)
		}
		for _, w := range r.Decision.Warnings {
			fmt.Fprintf(out, "    warn: %s\n", w)
		}
	}
}

func runPolicyTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := policy.NewTestRunner(appFs, policiesDir())

	hasTests, err := runner.HasTests()
	if err != nil {
		return fmt.Errorf("check for test files: %w", err)
	}
	if !hasTests {
		if isJSON() {
			return printJSON(cmd, &policy.TestSummary{Results: []*policy.TestResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No *_test.rego files found.")
		return nil
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run policy tests: %w", err)
	}

	if isJSON() {
		if err := printJSON(cmd, summary); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, r := range summary.Results {
			switch {
			case r.Passed:
				fmt.Fprintf(out, "%s %s.%s\n", ui.Icon("✓", ui.StylePrefixDone), r.Package, r.Name)
			case r.Skipped:
				fmt.Fprintf(out, "%s %s.%s (skipped)\n", ui.Icon("-", ui.StyleSubtle), r.Package, r.Name)
			default:
				fmt.Fprintf(out, "%s %s.%s %s\n", ui.Icon("✗", ui.StylePrefixError), r.Package, r.Name, r.Error)
				for _, line := range r.Output {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
		}
		fmt.Fprint(out, summary.FormatSummary())
	}

	if !summary.AllPassed() {
		return errReported
	}
	return nil
}
