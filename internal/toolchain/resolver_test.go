package toolchain

import "testing"

func TestResolver_ResolveBuiltin(t *testing.T) {
	r, err := NewResolver(nil)
	if err != nil {
		t.Fatal(err)
	}

	def, err := r.Resolve("gcovr")
	if err != nil {
		t.Fatalf("Resolve(gcovr) error = %v", err)
	}
	if def.Binary != "gcovr" {
		t.Errorf("Binary = %q, want %q", def.Binary, "gcovr")
	}
}

func TestResolver_ResolveUnknown(t *testing.T) {
	r, err := NewResolver(nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Resolve("nonexistent"); err == nil {
		t.Error("Resolve(nonexistent) expected error")
	}
	if got := r.Binary("nonexistent"); got != "nonexistent" {
		t.Errorf("Binary(nonexistent) = %q", got)
	}
}

func TestResolver_Override(t *testing.T) {
	r, err := NewResolver(map[string]string{"gcovr": "/home/user/.local/bin/gcovr"})
	if err != nil {
		t.Fatal(err)
	}

	def, err := r.Resolve("gcovr")
	if err != nil {
		t.Fatalf("Resolve(gcovr) error = %v", err)
	}
	if def.Binary != "/home/user/.local/bin/gcovr" {
		t.Errorf("Binary = %q", def.Binary)
	}
	if r.Binary("lcov") != "lcov" {
		t.Errorf("override leaked to lcov: %q", r.Binary("lcov"))
	}
}

func TestResolver_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{"unknown tool", map[string]string{"ninja": "/usr/bin/ninja"}},
		{"empty path", map[string]string{"lcov": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResolver(tt.overrides); err == nil {
				t.Error("NewResolver() expected error")
			}
		})
	}
}
