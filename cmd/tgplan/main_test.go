package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
report:
  organization: "Example Family Office"
scenarios:
  - name: "estate comparison"
    cascade:
      total_assets: 200000000
      premium: 6000000
      cash_value_at_gift: 2000000
      face_amount: 30000000
      donor_count: 1
      ownership_changed: true
      face_to_gen3_directly: true
  - name: "gifting schedule"
    plan:
      target_annual_premium: 10000000
      per_policy_cap: 5000000
      strategy: tax_minimizing
      rpu_enabled: true
      donor_count: 1
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "tgplan" {
		t.Errorf("Expected root command use to be 'tgplan', got %s", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}
	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(out, "tgplan") {
		t.Error("Expected help output to contain 'tgplan'")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	expected := []string{"calculate", "validate", "cascade", "plan", "compare", "capacity", "breakeven", "schedule", "report", "version"}

	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %s to be registered", name)
		}
	}
}

func TestInvalidCommand(t *testing.T) {
	if _, err := execute(t, "invalid-command"); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestInvalidFlag(t *testing.T) {
	if _, err := execute(t, "--invalid-flag"); err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestCascadeCommand(t *testing.T) {
	out, err := execute(t, "cascade", "--assets", "200,000,000", "--premium", "6000000",
		"--cash-value", "2000000", "--face", "30000000", "--format", "csv")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "48168900") || !strings.Contains(out, "47448900") {
		t.Errorf("Expected no-plan and plan totals in output, got %s", out)
	}
	if !strings.Contains(out, "720000") {
		t.Errorf("Expected savings of 720000 in output, got %s", out)
	}
}

func TestCascadeCommand_BadAmount(t *testing.T) {
	if _, err := execute(t, "cascade", "--assets", "lots"); err == nil {
		t.Error("Expected error for non-numeric amount")
	}
}

func TestCascadeCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "cascade", "--assets", "1000", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("Expected unknown format error, got %v", err)
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan", "--target", "10000000", "--cap", "5000000", "--format", "console-lite")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "2 policies") {
		t.Errorf("Expected two policies in plan output, got %s", out)
	}
	if !strings.Contains(out, "256,000") {
		t.Errorf("Expected total gift tax 256,000, got %s", out)
	}
}

func TestPlanCommand_BadStrategy(t *testing.T) {
	if _, err := execute(t, "plan", "--target", "10000000", "--strategy", "cheapest"); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestCompareCommand_Flags(t *testing.T) {
	out, err := execute(t, "compare", "--target", "10000000", "--cap", "5000000", "--format", "csv")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, name := range []string{"tax_minimizing", "face_priority", "face_maximizing"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in compare output", name)
		}
	}
}

func TestCompareCommand_File(t *testing.T) {
	path := writeConfig(t)
	out, err := execute(t, "compare", path, "--format", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "gifting schedule") {
		t.Errorf("Expected scenario name in compare output, got %s", out)
	}

	if _, err := execute(t, "compare", path, "--scenario", "missing"); err == nil {
		t.Error("Expected error for unknown scenario")
	}
}

func TestCapacityCommand(t *testing.T) {
	out, err := execute(t, "capacity", "--donors", "2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "LOWEST-BRACKET CAPACITY") {
		t.Errorf("Expected capacity heading, got %s", out)
	}

	if _, err := execute(t, "capacity", "--donors", "0"); err == nil {
		t.Error("Expected error for zero donors")
	}
}

func TestScheduleCommand(t *testing.T) {
	out, err := execute(t, "schedule", "--premium", "1000000", "--years", "3", "--override", "2=999")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "3,000,000") {
		t.Errorf("Expected cumulative premium for year 3, got %s", out)
	}
	if !strings.Contains(out, "999") {
		t.Errorf("Expected override value in output, got %s", out)
	}

	if _, err := execute(t, "schedule", "--premium", "1000000", "--override", "two=5"); err == nil {
		t.Error("Expected error for malformed override")
	}
}

func TestCalculateAndValidate(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("Expected valid configuration, got %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("Expected validation message, got %s", out)
	}

	out, err = execute(t, "calculate", path, "--format", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "estate comparison") || !strings.Contains(out, "Example Family Office") {
		t.Errorf("Expected scenario and branding in JSON output, got %s", out)
	}

	if _, err := execute(t, "calculate", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing configuration file")
	}
}

func TestReportCommand(t *testing.T) {
	path := writeConfig(t)
	pdfPath := filepath.Join(t.TempDir(), "plan.pdf")

	out, err := execute(t, "report", path, "--out", pdfPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, pdfPath) {
		t.Errorf("Expected output path in message, got %s", out)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("Expected report file, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected a PDF document")
	}
}

func TestParseOverrides(t *testing.T) {
	overrides, err := parseOverrides([]string{"1=100", " 3 = 250.5 "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(overrides) != 2 || overrides[3].String() != "250.5" {
		t.Errorf("Unexpected overrides: %v", overrides)
	}

	if o, err := parseOverrides(nil); err != nil || o != nil {
		t.Errorf("Expected nil overrides for no input, got %v, %v", o, err)
	}
}

func TestBreakevenCommand(t *testing.T) {
	out, err := execute(t, "breakeven", "--solve", "donors", "--cap", "5000000")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "Donor Count:") {
		t.Errorf("Expected solved donor count, got %s", out)
	}

	out, err = execute(t, "breakeven", "--budget", "256000", "--cap", "5000000", "--format", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, `"target_premium"`) {
		t.Errorf("Expected solved premium in JSON, got %s", out)
	}

	if _, err := execute(t, "breakeven", "--solve", "face"); err == nil {
		t.Error("Expected error for unsupported solve target")
	}
}
