/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorSeverity represents the severity of validation errors
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
)

// ValidationError represents a taxonomy validation error
type ValidationError struct {
	Severity ErrorSeverity
	Command  string
	Message  string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	sev := "ERROR"
	if e.Severity == SeverityWarning {
		sev = "WARNING"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, e.Command, e.Message)
}

// CoreCommands maps every built-in command to its group.
var CoreCommands = map[string]CommandGroup{
	"preview":  GroupGeneration,
	"generate": GroupGeneration,
	"plan":     GroupGeneration,
	"score":    GroupAnalysis,
	"keywords": GroupAnalysis,
	"version":  GroupSupport,
}

// ValidateTaxonomy checks that every core command is registered in its
// expected group. Commands outside CoreCommands produce warnings. Results
// are sorted by command name.
func ValidateTaxonomy(r *Registry) []ValidationError {
	var errs []ValidationError
	for name, want := range CoreCommands {
		cmd, ok := r.GetCommand(name)
		switch {
		case !ok:
			errs = append(errs, ValidationError{SeverityError, name, "core command is not registered"})
		case cmd.Group != want:
			errs = append(errs, ValidationError{SeverityError, name, fmt.Sprintf("incorrect group: expected %s, got %s", want, cmd.Group)})
		}
	}
	for name, cmd := range r.GetAllCommands() {
		if _, core := CoreCommands[name]; core {
			continue
		}
		if !knownGroup(cmd.Group) {
			errs = append(errs, ValidationError{SeverityError, name, fmt.Sprintf("uses invalid group: %s", cmd.Group)})
			continue
		}
		errs = append(errs, ValidationError{SeverityWarning, name, "extension command detected"})
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Command != errs[j].Command {
			return errs[i].Command < errs[j].Command
		}
		return errs[i].Message < errs[j].Message
	})
	return errs
}

func knownGroup(g CommandGroup) bool {
	for _, known := range Groups {
		if known == g {
			return true
		}
	}
	return false
}

// FormatErrors formats validation errors for display
func FormatErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors found"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d validation errors:\n", len(errors))
	for i, err := range errors {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}
