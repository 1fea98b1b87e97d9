package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

//go:embed templates
var templateFS embed.FS

// Data holds all template variables available to project templates.
type Data struct {
	Name        string // project name, e.g., "aoc-2024"
	PackageName string // derived import package, e.g., "aoc_2024"
	Description string
	Author      string // "Name <email>" form
	Version     string // e.g., "0.1.0"
	Python      string // interpreter range, e.g., "^3.11"
	Year        int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData creates a Data with derived fields populated.
func NewData(name, description, author, python string) *Data {
	if python == "" {
		python = "^3.11"
	}
	return &Data{
		Name:        name,
		PackageName: packageNameOf(name),
		Description: description,
		Author:      author,
		Version:     "0.1.0",
		Python:      python,
		Year:        time.Now().Year(),
	}
}

// packageNameOf derives an importable package name from a project name
// ("aoc-2024" -> "aoc_2024").
func packageNameOf(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Generate creates a new project skeleton in outputDir.
func Generate(data *Data, outputDir string) (*Result, error) {
	templatesDir := "templates/project"

	entries, err := fs.ReadDir(templateFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set not found: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := templatesDir + "/" + entry.Name()
		tmplBytes, err := fs.ReadFile(templateFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)
		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against the schema.
	manifestFile := filepath.Join(outputDir, "pyproject.toml")
	if _, err := os.Stat(manifestFile); err == nil {
		valResult, valErr := manifest.ValidateFile(manifestFile)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}
