package id

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	for _, length := range []int{1, 8, 12, 24} {
		generated, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) error = %v", length, err)
		}
		if len(generated) != length {
			t.Errorf("Generate(%d) length = %d", length, len(generated))
		}
	}
}

func TestGenerate_DefaultLength(t *testing.T) {
	generated, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate(0) error = %v", err)
	}
	if len(generated) != DefaultLength {
		t.Errorf("Generate(0) length = %d, want %d", len(generated), DefaultLength)
	}
}

func TestGenerate_Alphabet(t *testing.T) {
	generated, err := Generate(200)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, r := range generated {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("Generate() produced character %q outside the alphabet", r)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		generated := MustGenerate(DefaultLength)
		if seen[generated] {
			t.Fatalf("Generate() produced duplicate %q", generated)
		}
		seen[generated] = true
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	tests := []struct {
		prefix string
	}{
		{PrefixUniversity},
		{PrefixUser},
		{PrefixStudent},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			generated, err := GenerateWithPrefix(tt.prefix, DefaultLength)
			if err != nil {
				t.Fatalf("GenerateWithPrefix(%q) error = %v", tt.prefix, err)
			}
			if !HasPrefix(generated, tt.prefix) {
				t.Errorf("GenerateWithPrefix(%q) = %q, missing prefix", tt.prefix, generated)
			}
			if len(generated) != len(tt.prefix)+1+DefaultLength {
				t.Errorf("GenerateWithPrefix(%q) = %q, unexpected length", tt.prefix, generated)
			}
		})
	}
}

func TestHasPrefix(t *testing.T) {
	if !HasPrefix("uni_abc123", PrefixUniversity) {
		t.Error("HasPrefix() = false for matching prefix")
	}
	if HasPrefix("uni_abc123", PrefixUser) {
		t.Error("HasPrefix() = true for wrong prefix")
	}
	if HasPrefix("university", PrefixUniversity) {
		t.Error("HasPrefix() = true without underscore separator")
	}
}
