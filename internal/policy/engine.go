package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/spf13/afero"

	"github.com/josephgoksu/Guestflow/models"
)

// DefaultPolicyPackage is the Rego package queried for deny and warn rules.
const DefaultPolicyPackage = "guestflow.policy"

// Engine evaluates experiences against loaded policies. Queries are
// prepared once, so an Engine is safe for concurrent use.
type Engine struct {
	policies      []*PolicyFile
	policyPackage string
	deny          *rego.PreparedEvalQuery
	warn          *rego.PreparedEvalQuery
}

// EngineConfig configures NewEngine.
type EngineConfig struct {
	// WorkDir is the project root. PoliciesDir defaults to
	// {WorkDir}/.guestflow/policies.
	WorkDir     string
	PoliciesDir string
	// PolicyPackage defaults to DefaultPolicyPackage.
	PolicyPackage string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// NewEngine loads policies from disk and prepares the deny and warn queries.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.PoliciesDir == "" && cfg.WorkDir != "" {
		cfg.PoliciesDir = GetPoliciesPath(cfg.WorkDir)
	}

	policies, err := NewLoader(cfg.Fs, cfg.PoliciesDir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return NewEngineWithPolicies(ctx, cfg.PolicyPackage, policies)
}

// NewEngineWithPolicies builds an engine from policies already in memory.
// Rego unit test files are ignored for evaluation.
func NewEngineWithPolicies(ctx context.Context, policyPackage string, policies []*PolicyFile) (*Engine, error) {
	RegisterBuiltins()
	if policyPackage == "" {
		policyPackage = DefaultPolicyPackage
	}

	e := &Engine{policyPackage: policyPackage}
	for _, p := range policies {
		if !p.IsTest() {
			e.policies = append(e.policies, p)
		}
	}
	if len(e.policies) == 0 {
		return e, nil
	}

	var err error
	if e.deny, err = e.prepare(ctx, "deny"); err != nil {
		return nil, err
	}
	if e.warn, err = e.prepare(ctx, "warn"); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) prepare(ctx context.Context, rule string) (*rego.PreparedEvalQuery, error) {
	opts := []func(*rego.Rego){
		rego.Query(fmt.Sprintf("data.%s.%s", e.policyPackage, rule)),
	}
	for _, p := range e.policies {
		opts = append(opts, rego.Module(p.Path, p.Content))
	}
	pq, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare %s rules: %w", rule, err)
	}
	return &pq, nil
}

// PolicyCount returns the number of loaded policies.
func (e *Engine) PolicyCount() int {
	return len(e.policies)
}

// PolicyNames returns the names of the loaded policies.
func (e *Engine) PolicyNames() []string {
	names := make([]string, len(e.policies))
	for i, p := range e.policies {
		names[i] = p.Name
	}
	return names
}

// Evaluate runs the deny and warn rules against input. Without policies
// every input is allowed.
func (e *Engine) Evaluate(ctx context.Context, input any) (*Decision, error) {
	decision := &Decision{
		DecisionID:  uuid.New().String(),
		PolicyPath:  e.policyPackage,
		Result:      ResultAllow,
		Input:       input,
		EvaluatedAt: time.Now().UTC(),
	}
	if len(e.policies) == 0 {
		return decision, nil
	}

	violations, err := querySet(ctx, e.deny, input)
	if err != nil {
		return nil, fmt.Errorf("query deny rules: %w", err)
	}
	warnings, err := querySet(ctx, e.warn, input)
	if err != nil {
		return nil, fmt.Errorf("query warn rules: %w", err)
	}

	decision.Violations = violations
	decision.Warnings = warnings
	if len(violations) > 0 {
		decision.Result = ResultDeny
	}
	return decision, nil
}

// EvaluateExperience evaluates an experience and its ordered steps.
func (e *Engine) EvaluateExperience(ctx context.Context, exp models.Experience, steps []models.Step) (*Decision, error) {
	return e.Evaluate(ctx, NewInput(exp, steps))
}

// querySet collects the string members of a set rule. An undefined rule
// yields nothing.
func querySet(ctx context.Context, pq *rego.PreparedEvalQuery, input any) ([]string, error) {
	rs, err := pq.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			set, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, item := range set {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out, nil
}

// ValidatePolicy reports whether content is valid Rego.
func ValidatePolicy(ctx context.Context, content string) error {
	RegisterBuiltins()
	_, err := rego.New(
		rego.Query("data"),
		rego.Module("validation.rego", content),
	).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	return nil
}
