package verify

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	ReportFormatText = "text"
	ReportFormatYAML = "yaml"
)

const (
	mismatchSectionHeaderConstant = "MISMATCH"
	unknownSectionHeaderConstant  = "UNKNOWN"
	missingSectionHeaderConstant  = "MISSING"
	reportLineTemplateConstant    = " - %s expected %s got %s\n"
	successLineTemplateConstant   = "OK: all repos match %s versions\n"
	yamlStatusOKConstant          = "ok"
	yamlStatusFailedConstant      = "failed"
)

// Renderer writes a Report to an output stream.
type Renderer interface {
	Render(writer io.Writer, report Report) error
}

// ResolveRenderer returns the renderer registered for format. An empty format selects text.
func ResolveRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ReportFormatText:
		return TextRenderer{}, nil
	case ReportFormatYAML:
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedReportFormatTemplateConstant, ErrUnsupportedReportFormat, format)
	}
}

// TextRenderer prints MISMATCH, UNKNOWN and MISSING sections, or a single OK line.
type TextRenderer struct{}

// Render writes the plain text report.
func (renderer TextRenderer) Render(writer io.Writer, report Report) error {
	if !report.Failed() {
		_, writeError := fmt.Fprintf(writer, successLineTemplateConstant, report.ManifestName)
		return writeError
	}

	sections := []struct {
		header          string
		classifications []Classification
	}{
		{header: mismatchSectionHeaderConstant, classifications: report.Mismatches},
		{header: unknownSectionHeaderConstant, classifications: report.Unknowns},
		{header: missingSectionHeaderConstant, classifications: report.Missing},
	}

	var builder strings.Builder
	for _, section := range sections {
		if len(section.classifications) == 0 {
			continue
		}
		builder.WriteString(section.header)
		builder.WriteString("\n")
		for _, classification := range section.classifications {
			fmt.Fprintf(&builder, reportLineTemplateConstant, classification.Name, classification.Expected, classification.Observed)
		}
		builder.WriteString("\n")
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

// YAMLRenderer serializes the report groups as a YAML document.
type YAMLRenderer struct{}

type yamlReportEntry struct {
	Name     string `yaml:"name"`
	Expected string `yaml:"expected"`
	Got      string `yaml:"got"`
}

type yamlReportDocument struct {
	Manifest string            `yaml:"manifest"`
	Status   string            `yaml:"status"`
	Matched  int               `yaml:"matched"`
	Mismatch []yamlReportEntry `yaml:"mismatch,omitempty"`
	Unknown  []yamlReportEntry `yaml:"unknown,omitempty"`
	Missing  []yamlReportEntry `yaml:"missing,omitempty"`
}

// Render writes the YAML report.
func (renderer YAMLRenderer) Render(writer io.Writer, report Report) error {
	document := yamlReportDocument{
		Manifest: report.ManifestName,
		Status:   yamlStatusOKConstant,
		Matched:  report.MatchedCount,
		Mismatch: convertYAMLEntries(report.Mismatches),
		Unknown:  convertYAMLEntries(report.Unknowns),
		Missing:  convertYAMLEntries(report.Missing),
	}
	if report.Failed() {
		document.Status = yamlStatusFailedConstant
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

func convertYAMLEntries(classifications []Classification) []yamlReportEntry {
	if len(classifications) == 0 {
		return nil
	}
	entries := make([]yamlReportEntry, 0, len(classifications))
	for _, classification := range classifications {
		entries = append(entries, yamlReportEntry{
			Name:     classification.Name,
			Expected: classification.Expected,
			Got:      classification.Observed,
		})
	}
	return entries
}
