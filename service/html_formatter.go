package service

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/version"
)

// HTMLData represents the data for the HTML template
type HTMLData struct {
	GeneratedAt string
	Version     string
	Path        string
	Score       domain.CrabScore
	Breakdown   []domain.BonusAward
	Complexity  domain.ProjectComplexity
	Estimated   bool
	JSON        string
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"scoreClass": func(score float64) string {
		switch {
		case score >= ScoreBarGoodLevel:
			return "good"
		case score >= ScoreBarMediumLevel:
			return "fair"
		default:
			return "poor"
		}
	},
	"pct": func(score float64) string {
		return fmt.Sprintf("%.0f", score)
	},
}).Parse(htmlTemplate))

// WriteHTML writes the score result as a self-contained HTML page
func (f *OutputFormatterImpl) WriteHTML(result *domain.ScoreResult, writer io.Writer) error {
	var pretty bytes.Buffer
	if err := WriteJSON(&pretty, NewJSONReport(result.Score)); err != nil {
		return err
	}

	data := HTMLData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Version:     version.Version,
		Path:        result.Path,
		Score:       result.Score,
		Breakdown:   result.Breakdown,
		Complexity:  result.Complexity,
		Estimated:   result.Estimated(),
		JSON:        pretty.String(),
	}

	return reportTemplate.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>CrabScore Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #18191c;
            color: #f7f7f7;
            font-family: 'JetBrains Mono', monospace;
            padding: 2rem;
        }
        h1 { color: #ff5522; text-align: center; margin-bottom: 1.5rem; }
        .meta { text-align: center; color: #888; margin-bottom: 2rem; }
        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }
        .card { background: #222328; border-radius: 0.5rem; padding: 1rem; text-align: center; }
        .card .label { color: #aaa; font-size: 0.85rem; }
        .card .value { font-size: 2rem; font-weight: bold; }
        .good { color: #4caf50; }
        .fair { color: #ffc107; }
        .poor { color: #f44336; }
        .banner { background: #3a3000; color: #ffd54f; padding: 0.75rem; border-radius: 0.5rem; margin-bottom: 1.5rem; }
        ul { list-style: none; margin-bottom: 2rem; }
        li { padding: 0.25rem 0; }
        pre {
            background: #111;
            color: #aaa;
            padding: 1rem;
            border-radius: 0.5rem;
            overflow-x: auto;
        }
    </style>
</head>
<body>
    <h1>CRABSCORE REPORT</h1>
    <div class="meta">{{if .Path}}{{.Path}} &middot; {{end}}{{.Score.Metadata.Profile}} &middot; {{.GeneratedAt}} &middot; crabscore {{.Version}}</div>
    {{if .Estimated}}<div class="banner">Static analysis only: performance metrics are estimated from project complexity.</div>{{end}}
    <div class="cards">
        <div class="card"><div class="label">Overall</div><div class="value {{scoreClass .Score.Overall}}">{{pct .Score.Overall}}</div><div class="label">{{.Score.Certification}}</div></div>
        <div class="card"><div class="label">Performance</div><div class="value {{scoreClass .Score.Performance}}">{{pct .Score.Performance}}</div></div>
        <div class="card"><div class="label">Energy</div><div class="value {{scoreClass .Score.Energy}}">{{pct .Score.Energy}}</div></div>
        <div class="card"><div class="label">Cost</div><div class="value {{scoreClass .Score.Cost}}">{{pct .Score.Cost}}</div></div>
        <div class="card"><div class="label">Bonuses</div><div class="value">+{{pct .Score.Bonuses}}</div></div>
    </div>
    {{if .Breakdown}}
    <ul>
        {{range .Breakdown}}<li class="good">&#10003; {{.Name}} (+{{printf "%.1f" .Points}})</li>
        {{end}}
    </ul>
    {{end}}
    <ul>
        <li>Files: {{.Complexity.FileCount}}</li>
        <li>Lines: {{.Complexity.TotalLines}}</li>
        <li>Functions: {{.Complexity.FunctionCount}}</li>
        <li>Dependencies: {{.Complexity.DependencyCount}}</li>
    </ul>
    <pre>{{.JSON}}</pre>
</body>
</html>
`
