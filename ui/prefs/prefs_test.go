package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	if p.String(KeySide) != "" || p.FloatWithFallback(KeyWindowWidth, 1024) != 1024 {
		t.Fatal("fresh preferences are not empty")
	}
	if p.Dirty() {
		t.Error("fresh preferences are dirty")
	}

	p.SetString(KeySide, "back")
	p.SetString(KeyAssessmentID, "123456")
	p.SetFloat(KeyWindowWidth, 1280)
	if !p.Dirty() {
		t.Error("not dirty after set")
	}
	if err := p.SaveIfChanged(); err != nil {
		t.Fatalf("SaveIfChanged: %v", err)
	}
	if p.Dirty() {
		t.Error("dirty after save")
	}

	q := LoadFrom(path)
	if q.String(KeySide) != "back" || q.String(KeyAssessmentID) != "123456" {
		t.Errorf("strings = %q %q", q.String(KeySide), q.String(KeyAssessmentID))
	}
	if w := q.FloatWithFallback(KeyWindowWidth, 0); w != 1280 {
		t.Errorf("width = %v, want 1280", w)
	}

	q.SetString(KeySide, "back")
	if q.Dirty() {
		t.Error("setting an unchanged value marked preferences dirty")
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(path)
	if p.String(KeySide) != "" {
		t.Error("corrupt file produced values")
	}
	p.SetString(KeySide, "front")
	if err := p.Save(); err != nil {
		t.Fatalf("Save over corrupt file: %v", err)
	}
}
