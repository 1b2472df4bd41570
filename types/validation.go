/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// ErrorCode identifies a fatal validation condition. Values are stable and
// safe to use as i18n keys in the authoring UI.
type ErrorCode string

// WarningCode identifies an advisory validation condition.
type WarningCode string

// Structural errors.
const (
	CodeInvalidType         ErrorCode = "INVALID_TYPE"
	CodeMissingRequiredStep ErrorCode = "MISSING_REQUIRED_STEP"
	CodeDisallowedStepType  ErrorCode = "DISALLOWED_STEP_TYPE"
	CodeInvalidStepPosition ErrorCode = "INVALID_STEP_POSITION"
)

// Reference errors.
const (
	CodeInvalidVariableRef     ErrorCode = "INVALID_VARIABLE_REF"
	CodeVariableOrderViolation ErrorCode = "VARIABLE_ORDER_VIOLATION"
	CodeStaticValueMissing     ErrorCode = "STATIC_VALUE_MISSING"
	CodeInvalidEventField      ErrorCode = "INVALID_EVENT_FIELD"
	CodeDuplicateVariableKey   ErrorCode = "DUPLICATE_VARIABLE_KEY"
	CodeInvalidSourceType      ErrorCode = "INVALID_SOURCE_TYPE"
)

// Policy errors are produced by the app layer from Rego deny rules.
const CodePolicyViolation ErrorCode = "POLICY_VIOLATION"

// Advisory warnings.
const (
	CodeMissingRecommendedStep WarningCode = "MISSING_RECOMMENDED_STEP"
	CodeUnusedVariable         WarningCode = "UNUSED_VARIABLE"
	CodeUnboundPlaceholder     WarningCode = "UNBOUND_PLACEHOLDER"
	CodePolicyWarning          WarningCode = "POLICY_WARNING"
)

// CodeMissingRequiredValue is the only runtime resolution failure.
const CodeMissingRequiredValue = "MISSING_REQUIRED_VALUE"

// ValidationError is a fatal finding. StepID and Field are set when the
// finding can be pinned to a step or a config field.
type ValidationError struct {
	Code    ErrorCode `json:"code" yaml:"code"`
	Message string    `json:"message" yaml:"message"`
	StepID  string    `json:"stepId,omitempty" yaml:"stepId,omitempty"`
	Field   string    `json:"field,omitempty" yaml:"field,omitempty"`
}

// ValidationWarning is an advisory finding; it never affects validity.
type ValidationWarning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
	StepID  string      `json:"stepId,omitempty" yaml:"stepId,omitempty"`
	Field   string      `json:"field,omitempty" yaml:"field,omitempty"`
}

// ValidationResult is computed fresh on every save request and never persisted.
type ValidationResult struct {
	Valid    bool                `json:"valid" yaml:"valid"`
	Errors   []ValidationError   `json:"errors" yaml:"errors"`
	Warnings []ValidationWarning `json:"warnings" yaml:"warnings"`
}

// NewValidationResult returns an empty, valid result with non-nil slices so
// that it serializes as [] rather than null.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}
}

// AddError appends a fatal finding and marks the result invalid.
func (r *ValidationResult) AddError(e ValidationError) {
	r.Errors = append(r.Errors, e)
	r.Valid = false
}

// AddWarning appends an advisory finding.
func (r *ValidationResult) AddWarning(w ValidationWarning) {
	r.Warnings = append(r.Warnings, w)
}

// Merge appends the findings of other, preserving order.
func (r *ValidationResult) Merge(other ValidationResult) {
	for _, e := range other.Errors {
		r.AddError(e)
	}
	for _, w := range other.Warnings {
		r.AddWarning(w)
	}
}

// HasError reports whether the result carries an error with the given code.
func (r ValidationResult) HasError(code ErrorCode) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// HasWarning reports whether the result carries a warning with the given code.
func (r ValidationResult) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
