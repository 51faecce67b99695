package reconcile

import (
	"errors"
	"fmt"

	"github.com/cdwalton/stateyear/internal/relation"
)

// ErrorCode categorizes fatal reconciliation errors.
type ErrorCode string

const (
	// ErrCodeUniquenessViolation indicates a rule produced duplicate
	// (code, year) keys in the regime relation.
	ErrCodeUniquenessViolation ErrorCode = "UNIQUENESS_VIOLATION"

	// ErrCodeBadRuleOrder indicates the rule sequence violates a declared
	// ordering dependency or contains an invalid rule.
	ErrCodeBadRuleOrder ErrorCode = "BAD_RULE_ORDER"
)

// Error is a fatal error detected while applying the rule sequence.
// Reconciliation is a deterministic batch transform, so every Error is a
// structural bug in rule data or input data; there is nothing to retry.
type Error struct {
	Code    ErrorCode
	Message string
	RuleID  string
	Key     relation.Key
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("%s: %s (rule=%s, key=%s)", e.Code, e.Message, e.RuleID, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUniquenessViolation reports whether err is a uniqueness violation.
// Uses errors.As to handle wrapped errors.
func IsUniquenessViolation(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeUniquenessViolation
	}
	return false
}

// Warning reports a declared conflict year with no actual overlap in the
// input data. It signals a stale rule table, not corrupted data, so the
// run continues.
type Warning struct {
	RuleID  string       `json:"rule_id"`
	Key     relation.Key `json:"key"`
	Message string       `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("rule %s: %s at %s", w.RuleID, w.Message, w.Key)
}
