package types

import (
	"fmt"
	"strings"

	"github.com/datazip-inc/sparkify/utils"
)

// ErrorPolicy decides what the pipeline does with a unit of work that failed
type ErrorPolicy string

const (
	// FailPolicy aborts the run on the first failed unit
	FailPolicy ErrorPolicy = "fail"
	// SkipPolicy rolls the failed unit back and continues with the next one
	SkipPolicy ErrorPolicy = "skip"
)

var errorPolicies = []ErrorPolicy{FailPolicy, SkipPolicy}

func (p ErrorPolicy) Validate() error {
	if !utils.ExistInArray(errorPolicies, p) {
		return fmt.Errorf("invalid error_policy[%s]: must be one of %v", p, errorPolicies)
	}
	return nil
}

// ParseErrorPolicy normalizes user input, an empty value maps to FailPolicy
func ParseErrorPolicy(value string) (ErrorPolicy, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return FailPolicy, nil
	}
	policy := ErrorPolicy(value)
	return policy, policy.Validate()
}
