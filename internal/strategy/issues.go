package strategy

import (
	"errors"
	"slices"

	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

// issueFor maps a component error onto the analysis issue taxonomy.
func issueFor(err error) (model.Issue, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, calculator.ErrNoStructure):
		return model.IssueNoStructure, true
	case errors.Is(err, ErrMissingInputs):
		return model.IssueMissingInputs, true
	default:
		return model.IssueInsufficientHistory, true
	}
}

// note records err on the analysis once per issue kind.
func note(a *model.Analysis, err error) {
	issue, ok := issueFor(err)
	if !ok || slices.Contains(a.Issues, issue) {
		return
	}
	a.Issues = append(a.Issues, issue)
}
