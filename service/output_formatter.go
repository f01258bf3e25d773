package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/crabscore/domain"
)

// Score bar layout
const (
	ScoreBarWidth       = 20
	ScoreBarGoodLevel   = 80.0
	ScoreBarMediumLevel = 60.0
)

// OutputFormatterImpl renders score results as text, JSON, YAML or HTML
type OutputFormatterImpl struct {
	color bool
}

// NewOutputFormatter creates a formatter that colors text output when the
// process writes to a terminal
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{color: !color.NoColor}
}

// WithColor forces text coloring on or off
func (f *OutputFormatterImpl) WithColor(enabled bool) *OutputFormatterImpl {
	f.color = enabled
	return f
}

// JSONReport is the document written for JSON and YAML output
type JSONReport struct {
	Score domain.CrabScore `json:"score" yaml:"score"`
}

// NewJSONReport wraps a score for serialization
func NewJSONReport(score domain.CrabScore) JSONReport {
	return JSONReport{Score: score}
}

// WriteJSON writes data as two-space indented JSON followed by a newline
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders result in the given format
func (f *OutputFormatterImpl) Write(result *domain.ScoreResult, format domain.OutputFormat, writer io.Writer) error {
	if result == nil {
		return domain.NewOutputError("no score to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, NewJSONReport(result.Score))
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, NewJSONReport(result.Score))
	case domain.OutputFormatHTML:
		err = f.WriteHTML(result, writer)
	case domain.OutputFormatText, "":
		err = f.writeText(result, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s report", format), err)
	}
	return nil
}

// ParseOutputFormat validates a format name
func ParseOutputFormat(name string) (domain.OutputFormat, error) {
	switch format := domain.OutputFormat(strings.ToLower(strings.TrimSpace(name))); format {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
		return format, nil
	case "":
		return domain.OutputFormatText, nil
	default:
		return "", domain.NewUnsupportedFormatError(name)
	}
}

func (f *OutputFormatterImpl) writeText(result *domain.ScoreResult, writer io.Writer) error {
	score := result.Score
	bold := color.New(color.Bold)

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", f.paint(color.New(color.Bold, color.FgHiWhite), "CrabScore Report"))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("━", 50))

	if result.Path != "" {
		fmt.Fprintf(&b, "Project: %s\n", result.Path)
	}
	fmt.Fprintf(&b, "Profile: %s\n", score.Metadata.Profile)

	if result.Estimated() {
		fmt.Fprintf(&b, "%s\n", f.paint(color.New(color.FgYellow), "Mode: Static Analysis Only"))
		fmt.Fprintf(&b, "%s\n", f.paint(color.New(color.Faint), "Note: Performance metrics are estimated based on project complexity"))
	} else if result.ArtifactPath != "" {
		fmt.Fprintf(&b, "Artifact: %s (%d iterations)\n", result.ArtifactPath, score.Metadata.Measurements.Iterations)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s: %.0f/100 [%s]\n",
		f.paint(bold, "Overall Score"),
		score.Overall,
		f.paint(color.New(color.FgHiYellow), score.Certification.String()),
	)

	fmt.Fprintf(&b, "\n%s\n", f.paint(bold, "Breakdown:"))
	b.WriteString(f.scoreBar("Performance", score.Performance))
	b.WriteString(f.scoreBar("Energy", score.Energy))
	b.WriteString(f.scoreBar("Cost", score.Cost))

	if score.Bonuses > 0 {
		fmt.Fprintf(&b, "\n%s: +%.1f\n", f.paint(bold, "Bonuses"), score.Bonuses)
		for _, award := range result.Breakdown {
			fmt.Fprintf(&b, "  %s %s (+%.1f)\n", f.paint(color.New(color.FgGreen), "✓"), award.Name, award.Points)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", f.paint(bold, "Safety:"))
	fmt.Fprintf(&b, "  Unsafe blocks: %d\n", result.Safety.UnsafeBlocks)
	fmt.Fprintf(&b, "  Average cyclomatic complexity: %.2f\n", result.Safety.AvgCyclomatic)

	c := result.Complexity
	fmt.Fprintf(&b, "\n%s\n", f.paint(bold, "Project Complexity:"))
	fmt.Fprintf(&b, "  Files: %d\n", c.FileCount)
	fmt.Fprintf(&b, "  Lines: %d\n", c.TotalLines)
	fmt.Fprintf(&b, "  Functions: %d\n", c.FunctionCount)
	fmt.Fprintf(&b, "  Dependencies: %d\n", c.DependencyCount)

	_, err := io.WriteString(writer, b.String())
	return err
}

// scoreBar renders one labelled 20-cell bar
func (f *OutputFormatterImpl) scoreBar(name string, score float64) string {
	filled := int(score / 100.0 * ScoreBarWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > ScoreBarWidth {
		filled = ScoreBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", ScoreBarWidth-filled)

	var c *color.Color
	switch {
	case score >= ScoreBarGoodLevel:
		c = color.New(color.FgHiGreen)
	case score >= ScoreBarMediumLevel:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}

	return fmt.Sprintf("  %-12s %3.0f/100 %s\n", name+":", score, f.paint(c, bar))
}

func (f *OutputFormatterImpl) paint(c *color.Color, s string) string {
	if !f.color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
