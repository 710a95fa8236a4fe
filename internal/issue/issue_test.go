// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique
	ids := []Id{
		ManifestNotFoundId,
		EntryNotFoundId,
		ModuleFileMissingId,
		ModuleFileAmbiguousId,
		ParseErrorId,
		PrivateSymbolId,
		ReexportCycleId,
		IncludeCycleId,
		ConfigLoadFailedId,
		MainMissingId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
}

func TestGet(t *testing.T) {
	for _, id := range []Id{
		ManifestNotFoundId,
		ModuleFileMissingId,
		PrivateSymbolId,
		MainMissingId,
	} {
		issue := Get(id)
		if issue == nil {
			t.Fatalf("Get(%d) returned nil", id)
		}
		if issue.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, issue.Id())
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Get(%d).MarkdownMsg() is empty", id)
		}
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(unknown) should return nil")
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(ManifestNotFoundId)
	if issue == nil {
		t.Fatal("Get(ManifestNotFoundId) returned nil")
	}

	msg := issue.MarkdownMsg()
	if !strings.Contains(string(msg), "No lumen.toml found") {
		t.Error("MarkdownMsg() should contain 'No lumen.toml found'")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(values), len(issues))
	}
}

func TestIssue_Render(t *testing.T) {
	// Stub the renderer so the test does not depend on terminal styling.
	orig := render
	render = func(in, _ string) (string, error) { return in, nil }
	t.Cleanup(func() { render = orig })

	issue := &Issue{
		id:       PrivateSymbolId,
		mdMsg:    "# body",
		docLinks: []HttpLink{"https://example.com/docs/visibility"},
	}

	out, err := issue.Render("auto")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "# body") {
		t.Errorf("Render() = %q, want issue body included", out)
	}
	if !strings.Contains(out, "See also") {
		t.Errorf("Render() = %q, want links section", out)
	}
}
