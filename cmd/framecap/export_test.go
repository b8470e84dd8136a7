package main

import (
	"io"
	"strings"
	"testing"
)

// TestNewExportCmd tests the export command creation.
func TestNewExportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "export [capture-id]" {
			t.Errorf("expected use 'export [capture-id]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has url flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("url")
		if flag == nil {
			t.Fatal("expected url flag")
		}
		if flag.Shorthand != "u" {
			t.Errorf("expected shorthand 'u', got %q", flag.Shorthand)
		}
	})

	t.Run("has out flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("out")
		if flag == nil {
			t.Fatal("expected out flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})
}

// TestRunExportCmd tests the export command argument handling.
func TestRunExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("requires a capture id or url", func(t *testing.T) {
		t.Parallel()

		cmd := NewExportCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error without capture id or url")
		}
		if !strings.Contains(err.Error(), "capture ID or --url is required") {
			t.Errorf("unexpected error message: %v", err)
		}
	})
}

// Note: Tests for runExportCmd against a stored capture are not included;
// the store always lives in the XDG data directory, which adrg/xdg pins at
// package initialization (see the note in compare_test.go). The lookup and
// re-export paths are covered by the database package tests and by
// TestLoadCaptureRef, which share the same store and envelope code.
