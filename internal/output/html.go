package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/sortbench/internal/metrics"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Report      Report
	Stats       metrics.Stats
	HistoryJSON string
	Metadata    ReportMetadata
}

// GenerateHTMLReport generates a standalone HTML report with embedded charts.
func GenerateHTMLReport(w io.Writer, r Report) error {
	history := r.History
	if history == nil {
		history = []metrics.DataPoint{}
	}
	// Convert history to JSON for embedding in HTML
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	data := HTMLReportData{
		GeneratedAt: generated.Format(time.RFC3339),
		Report:      r,
		Stats:       r.Stats,
		HistoryJSON: string(historyJSON),
		Metadata:    r.Metadata,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			return d.String()
		},
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"formatMs": func(f float64) string {
			return fmt.Sprintf("%.4f", f)
		},
		"last": func(xs []int) int {
			if len(xs) == 0 {
				return 0
			}
			return xs[len(xs)-1]
		},
		"formatPercent": func(part, total int64) string {
			if total == 0 {
				return "0.0"
			}
			return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sortbench Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1400px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .card .subvalue {
            font-size: 0.85rem;
            color: #6c757d;
            margin-top: 5px;
        }
        .card.success {
            border-left-color: #10b981;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        .chart-container {
            background: white;
            border-radius: 8px;
            padding: 20px;
            margin-bottom: 30px;
            border: 1px solid #e5e7eb;
        }
        .chart-container h3 {
            font-size: 1.1rem;
            margin-bottom: 15px;
            color: #4b5563;
        }
        .chart {
            width: 100%;
            height: 300px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        td.num, th.num {
            text-align: right;
            font-variant-numeric: tabular-nums;
        }
        tr.regression {
            background: #fef2f2;
        }
        .no-data {
            text-align: center;
            padding: 40px;
            color: #6c757d;
            font-style: italic;
        }
    </style>
    <script src="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.iife.min.js"></script>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.min.css">
</head>
<body>
    <div class="container">
        <header>
            <h1>Sortbench Report</h1>
            {{if .Report.RunID}}<div class="meta">Run: {{.Report.RunID}}</div>{{end}}
            <div class="meta">Generated: {{.GeneratedAt}} | Duration: {{formatDuration .Stats.Duration}}</div>
        </header>

        <div class="content">
            <div class="grid">
                <div class="card">
                    <h3>Trials</h3>
                    <div class="value">{{.Stats.Total}}</div>
                    {{if .Stats.Planned}}<div class="subvalue">of {{.Stats.Planned}} planned</div>{{end}}
                </div>
                <div class="card success">
                    <h3>Successful</h3>
                    <div class="value">{{.Stats.Successes}}</div>
                    <div class="subvalue">{{formatPercent .Stats.Successes .Stats.Total}}%</div>
                </div>
                <div class="card error">
                    <h3>Failed</h3>
                    <div class="value">{{.Stats.Failures}}</div>
                    <div class="subvalue">{{formatPercent .Stats.Failures .Stats.Total}}%</div>
                </div>
                <div class="card">
                    <h3>Trials/sec</h3>
                    <div class="value">{{formatFloat .Stats.TrialsPerSec}}</div>
                </div>
            </div>

            {{if .Report.History}}
            <div class="section">
                <h2>Progress Over Time</h2>
                <div class="chart-container">
                    <h3>Sort Duration (ms)</h3>
                    <div id="duration-chart" class="chart"></div>
                </div>
            </div>
            {{end}}

            <div class="section">
                <h2>Strategies</h2>
                {{if .Stats.Strategies}}
                <table>
                    <thead>
                        <tr>
                            <th>Strategy</th>
                            <th class="num">Trials</th>
                            <th class="num">Failed</th>
                            <th class="num">Mean (ms)</th>
                            <th class="num">P99 (ms)</th>
                            <th class="num">ns/element</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Stats.Strategies}}
                        <tr>
                            <td><strong>{{.Strategy}}</strong></td>
                            <td class="num">{{.Count}}</td>
                            <td class="num">{{.Failures}}</td>
                            <td class="num">{{formatMs .MeanMs}}</td>
                            <td class="num">{{formatMs .P99Ms}}</td>
                            <td class="num">{{formatFloat .NsPerElement}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-data">No trials recorded</div>
                {{end}}
            </div>

            {{if .Stats.Series}}
            <div class="section">
                <h2>Series</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Strategy</th>
                            <th>Distribution</th>
                            <th class="num">Size</th>
                            <th class="num">Runs</th>
                            <th class="num">Min (ms)</th>
                            <th class="num">Mean (ms)</th>
                            <th class="num">P50 (ms)</th>
                            <th class="num">P99 (ms)</th>
                            <th class="num">Max (ms)</th>
                            <th class="num">ns/element</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Stats.Series}}
                        <tr>
                            <td>{{.Strategy}}</td>
                            <td>{{.Distribution}}</td>
                            <td class="num">{{.Size}}</td>
                            <td class="num">{{.Count}}</td>
                            <td class="num">{{formatMs .MinMs}}</td>
                            <td class="num">{{formatMs .MeanMs}}</td>
                            <td class="num">{{formatMs .P50Ms}}</td>
                            <td class="num">{{formatMs .P99Ms}}</td>
                            <td class="num">{{formatMs .MaxMs}}</td>
                            <td class="num">{{formatFloat .NsPerElement}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{with .Report.Thresholds}}
            <div class="section">
                <h2>Thresholds ({{.Passed}}/{{.Total}} Passed)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Threshold</th>
                            <th>Metric</th>
                            <th>Expected</th>
                            <th>Actual</th>
                            <th>Status</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Results}}
                        <tr>
                            <td>{{.Threshold}}</td>
                            <td>{{.Metric}}{{if .Strategy}} [{{.Strategy}}]{{end}} ({{.Aggregate}})</td>
                            <td>{{.Operator}} {{formatFloat .Expected}}</td>
                            <td>{{formatFloat .Actual}}</td>
                            <td>
                                {{if .Pass}}
                                <span class="badge badge-success">✓ PASS</span>
                                {{else}}
                                <span class="badge badge-error">✗ FAIL</span>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{with .Report.Baseline}}
            <div class="section">
                <h2>Baseline Comparison ({{.Regressions}} regressions, tolerance {{formatFloat .TolerancePct}}%)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Series</th>
                            <th class="num">Baseline P50 (ms)</th>
                            <th class="num">Current P50 (ms)</th>
                            <th class="num">Delta</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}
                        <tr{{if .Regression}} class="regression"{{end}}>
                            <td>{{.Strategy}} / {{.Distribution}} / {{.Size}}</td>
                            <td class="num">{{formatMs .BaselineMs}}</td>
                            <td class="num">{{formatMs .CurrentMs}}</td>
                            <td class="num">{{formatFloat .DeltaPct}}%</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            <div class="section">
                <h2>Configuration</h2>
                <table>
                    <tbody>
                        <tr><th>Strategies</th><td>{{range $i, $s := .Metadata.Strategies}}{{if $i}}, {{end}}{{$s}}{{end}}</td></tr>
                        <tr><th>Distributions</th><td>{{range $i, $d := .Metadata.Distributions}}{{if $i}}, {{end}}{{$d}}{{end}}</td></tr>
                        <tr><th>Sizes</th><td>{{len .Metadata.Sizes}} sizes{{if .Metadata.Sizes}} ({{index .Metadata.Sizes 0}} .. {{last .Metadata.Sizes}}){{end}}</td></tr>
                        <tr><th>Repetitions</th><td>{{.Metadata.Repetitions}} (+{{.Metadata.Warmup}} warm-up)</td></tr>
                        <tr><th>Seed</th><td>{{.Metadata.Seed}}</td></tr>
                        <tr><th>Max value</th><td>{{.Metadata.MaxValue}}</td></tr>
                        <tr><th>Concurrency</th><td>{{.Metadata.Concurrency}}</td></tr>
                        <tr><th>Verify</th><td>{{.Metadata.Verify}}</td></tr>
                    </tbody>
                </table>
            </div>
        </div>
    </div>

    {{if .Report.History}}
    <script>
        const historyJSON = {{.HistoryJSON}};
        const history = JSON.parse(historyJSON);

        if (history && history.length > 0) {
            const startTime = new Date(history[0].timestamp).getTime();
            const timestamps = history.map(d => (new Date(d.timestamp).getTime() - startTime) / 1000);

            new uPlot({
                title: "Sort Duration",
                width: document.getElementById('duration-chart').offsetWidth,
                height: 300,
                scales: { x: { time: false } },
                series: [
                    { label: "Time (s)" },
                    { label: "Mean", stroke: "#10b981", width: 2 },
                    { label: "P99", stroke: "#ef4444", width: 2 }
                ],
                axes: [
                    { label: "Time (seconds)" },
                    { label: "Duration (ms)" }
                ]
            }, [
                timestamps,
                history.map(d => d.mean_ms),
                history.map(d => d.p99_ms)
            ], document.getElementById('duration-chart'));
        }
    </script>
    {{end}}
</body>
</html>
`
