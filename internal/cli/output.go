package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"regcheck/internal/domain"
	"regcheck/internal/validator/company"
)

// Output formats supported by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders result to w in the given format.
func Write(w io.Writer, format string, result *company.ValidationResult) error {
	switch format {
	case "", FormatText:
		return NewTextFormatter().Format(w, result)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		return writeYAML(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeYAML emits the result with the same keys as the JSON output.
func writeYAML(w io.Writer, result *company.ValidationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	plainStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func plainStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plainStyle(c)
	}
}

// TextFormatter renders a human-readable verdict.
type TextFormatter struct {
	colors map[string]*color.Color
}

// NewTextFormatter creates a TextFormatter. Colour is disabled automatically
// when stdout is not a terminal; set color.NoColor to force it off.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen, color.Bold),
			"yellow": color.New(color.FgYellow, color.Bold),
			"red":    color.New(color.FgRed, color.Bold),
			"cyan":   color.New(color.FgCyan),
			"dim":    color.New(color.Faint),
		},
	}
}

func (f *TextFormatter) verdictColor(v domain.Verdict) *color.Color {
	switch v {
	case domain.VerdictPassed:
		return f.colors["green"]
	case domain.VerdictManualReview:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// Format writes the verdict, the extracted fields and any mismatches.
func (f *TextFormatter) Format(w io.Writer, result *company.ValidationResult) error {
	var b strings.Builder
	verdict := domain.VerdictFor(result.IsValid, result.RequiresManualReview, result.OCRFailed)
	data := result.ExtractedData

	fmt.Fprintf(&b, "Verdict:    %s\n", f.verdictColor(verdict).Sprint(strings.ToUpper(string(verdict))))
	fmt.Fprintf(&b, "Confidence: %s (fields: %s)\n", data.Confidence, data.FieldConfidence)
	fmt.Fprintf(&b, "Method:     %s\n", data.ExtractionMethod)

	b.WriteString("\nExtracted fields:\n")
	for _, field := range company.AllFields {
		v := data.Value(field)
		if v == "" {
			v = f.colors["dim"].Sprint("(not found)")
		}
		fmt.Fprintf(&b, "  %s %s\n", f.colors["cyan"].Sprintf("%-20s", field), v)
	}

	if len(result.Mismatches) > 0 {
		b.WriteString("\nMismatches:\n")
		for _, m := range result.Mismatches {
			fmt.Fprintf(&b, "  %s %s\n", f.colors["red"].Sprint("x"), m.String())
		}
	}
	if len(data.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range data.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
