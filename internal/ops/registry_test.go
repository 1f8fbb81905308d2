/*
Copyright © 2025 3 Leaps (hello@3leaps.net and https://3leaps.net)
*/
package ops

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func registerCore(t *testing.T, r *Registry) {
	t.Helper()
	for name, group := range CoreCommands {
		if err := r.Register(name, group, &cobra.Command{Use: name}, name+" command"); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
}

func TestRegistry_BasicRegistration(t *testing.T) {
	registry := NewRegistry()
	testCmd := &cobra.Command{Use: "preview", Short: "Preview assets"}

	if err := registry.Register("preview", GroupGeneration, testCmd, "Preview assets"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	cmd, exists := registry.GetCommand("preview")
	if !exists {
		t.Fatal("Expected command to exist after registration")
	}
	if cmd.Group != GroupGeneration {
		t.Errorf("Expected command group 'generation', got '%s'", cmd.Group)
	}
	if cmd.Command != testCmd {
		t.Error("Expected command object to match registered command")
	}
	if _, exists := registry.GetCommand("missing"); exists {
		t.Error("Expected unknown command to be absent")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("score", GroupAnalysis, &cobra.Command{}, "first"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := registry.Register("score", GroupAnalysis, &cobra.Command{}, "second")
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}

func TestRegistry_GroupOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"preview", "generate", "plan"} {
		if err := registry.Register(name, GroupGeneration, &cobra.Command{}, name); err != nil {
			t.Fatal(err)
		}
	}
	got := registry.GetCommandsByGroup(GroupGeneration)
	if len(got) != 3 || got[0].Name != "preview" || got[2].Name != "plan" {
		t.Fatalf("unexpected group order: %+v", got)
	}

	// returned slice is a copy
	got[0] = nil
	if registry.GetCommandsByGroup(GroupGeneration)[0] == nil {
		t.Error("GetCommandsByGroup leaked the internal index")
	}
	if n := len(registry.GetCommandsByGroup(GroupSupport)); n != 0 {
		t.Errorf("expected empty support group, got %d", n)
	}
}

func TestGroupTitle(t *testing.T) {
	tests := map[CommandGroup]string{
		GroupGeneration:       "Generation Commands",
		GroupAnalysis:         "Analysis Commands",
		GroupSupport:          "Support Commands",
		CommandGroup("other"): "other",
	}
	for g, want := range tests {
		if got := g.Title(); got != want {
			t.Errorf("%s.Title() = %q, want %q", g, got, want)
		}
	}
}

func TestValidateTaxonomy_Clean(t *testing.T) {
	registry := NewRegistry()
	registerCore(t, registry)
	if errs := ValidateTaxonomy(registry); len(errs) != 0 {
		t.Fatalf("expected no errors, got:\n%s", FormatErrors(errs))
	}
}

func TestValidateTaxonomy_Problems(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("preview", GroupGeneration, &cobra.Command{}, "")
	_ = registry.Register("score", GroupSupport, &cobra.Command{}, "")
	_ = registry.Register("export", GroupAnalysis, &cobra.Command{}, "")
	_ = registry.Register("serve", CommandGroup("server"), &cobra.Command{}, "")

	errs := ValidateTaxonomy(registry)
	byCommand := map[string]ValidationError{}
	for _, e := range errs {
		byCommand[e.Command] = e
	}

	if e := byCommand["score"]; e.Severity != SeverityError || !strings.Contains(e.Message, "expected analysis, got support") {
		t.Errorf("unexpected score error: %v", e)
	}
	if e := byCommand["export"]; e.Severity != SeverityWarning {
		t.Errorf("expected extension warning, got %v", e)
	}
	if e := byCommand["serve"]; !strings.Contains(e.Message, "invalid group") {
		t.Errorf("expected invalid group error, got %v", e)
	}
	for _, missing := range []string{"generate", "plan", "keywords", "version"} {
		if e, ok := byCommand[missing]; !ok || e.Message != "core command is not registered" {
			t.Errorf("expected %s to be reported missing, got %v", missing, e)
		}
	}
	if _, ok := byCommand["preview"]; ok {
		t.Error("preview is registered correctly and should not be reported")
	}

	out := FormatErrors(errs)
	if !strings.HasPrefix(out, "Found 7 validation errors:") {
		t.Errorf("unexpected summary: %s", out)
	}
	if FormatErrors(nil) != "No validation errors found" {
		t.Error("expected empty summary")
	}
}
