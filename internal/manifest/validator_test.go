package manifest

import (
	"errors"
	"testing"
)

func TestValidate_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid-aoc.toml", "valid-rich-deps.toml"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile error: %v", err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got issues: %v", result.Issues)
			}
		})
	}
}

func TestValidate_SchemaViolations(t *testing.T) {
	result, err := ValidateFile(testPath("invalid-schema.toml"))
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if result.Valid {
		t.Fatal("expected schema violations, got valid")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
	for _, issue := range result.Issues {
		if issue.Message == "" {
			t.Errorf("issue at %q has empty message", issue.Path)
		}
	}
}

func TestValidate_DuplicateKeyIsFormatError(t *testing.T) {
	_, err := ValidateFile(testPath("invalid-dup-key.toml"))
	if err == nil {
		t.Fatal("expected error for duplicate keys, got nil")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a FormatError", err)
	}
}

func TestValidate_UnknownToolNamespaceAccepted(t *testing.T) {
	data := []byte(`
[tool.poetry]
name = "iso"
version = "0.1.0"

[tool.somefuturetool]
whatever = { nested = [1, 2, 3] }
`)
	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		t.Errorf("unknown tool namespace should validate, got issues: %v", result.Issues)
	}
}
