package main

import (
	"strings"
	"testing"
)

func TestIdeaCmd_Help(t *testing.T) {
	out := mustRunLP(t, "idea", "--help")
	for _, sub := range []string{"create", "list", "promote", "advance", "complete", "archive", "delete"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q, got: %s", sub, out)
		}
	}
}

func TestIdeaCreate_MissingTitle(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := runLP(t, "idea", "create", "-c", cfg); err == nil {
		t.Fatal("expected error when --title is missing")
	}
}

func TestIdeaBuildCLIScenario(t *testing.T) {
	cfg := writeConfig(t)
	mustRunLP(t, "db", "init", "-c", cfg)

	id := createdID(t, mustRunLP(t, "idea", "create", "-c", cfg, "--title", "Build CLI", "--priority", "high", "--tag", "dev"))

	out := mustRunLP(t, "idea", "list", "-c", cfg, "--status", "parking")
	if !strings.Contains(out, "Build CLI") || !strings.Contains(out, "dev") {
		t.Errorf("list output missing idea: %s", out)
	}

	out = mustRunLP(t, "idea", "promote", "-c", cfg, id)
	if !strings.Contains(out, "stage 1: Product") {
		t.Errorf("promote output = %s", out)
	}

	for i := 0; i < 5; i++ {
		out = mustRunLP(t, "idea", "advance", "-c", cfg, id)
	}
	if !strings.Contains(out, "stage 6/6: Sale") {
		t.Errorf("advance output = %s", out)
	}
	if _, err := runLP(t, "idea", "advance", "-c", cfg, id); err == nil {
		t.Error("expected error advancing past the final stage")
	}

	out = mustRunLP(t, "idea", "complete", "-c", cfg, id)
	if !strings.Contains(out, "Completed idea "+id) {
		t.Errorf("complete output = %s", out)
	}

	out = mustRunLP(t, "idea", "list", "-c", cfg)
	if !strings.Contains(out, "completed") || !strings.Contains(out, "6/6 Sale") {
		t.Errorf("final list = %s", out)
	}

	mustRunLP(t, "idea", "delete", "-c", cfg, id)
	out = mustRunLP(t, "idea", "list", "-c", cfg)
	if !strings.Contains(out, "No ideas found.") {
		t.Errorf("list after delete = %s", out)
	}
}

func TestIdeaArchive_OnlyParking(t *testing.T) {
	cfg := writeConfig(t)
	mustRunLP(t, "db", "init", "-c", cfg)
	id := createdID(t, mustRunLP(t, "idea", "create", "-c", cfg, "--title", "Someday"))

	mustRunLP(t, "idea", "archive", "-c", cfg, id)
	if _, err := runLP(t, "idea", "promote", "-c", cfg, id); err == nil {
		t.Error("expected error promoting an archived idea")
	}
}

func TestIdeaAdvance_NoPipeline(t *testing.T) {
	cfg := writeConfig(t)
	mustRunLP(t, "db", "init", "-c", cfg)
	id := createdID(t, mustRunLP(t, "idea", "create", "-c", cfg, "--title", "x"))

	_, err := runLP(t, "idea", "advance", "-c", cfg, id)
	if err == nil || !strings.Contains(err.Error(), "promote it first") {
		t.Errorf("err = %v", err)
	}
}
