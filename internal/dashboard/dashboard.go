package dashboard

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"

	"github.com/johns/chatlens/internal/aggregate"
)

// Data is everything the dashboard embeds. The output is one
// self-contained HTML file with no external assets, so it can be mailed
// around or dropped on a static host as-is.
type Data struct {
	Summary     *aggregate.Summary
	Mapping     *aggregate.Mapping
	Transcripts map[string]string // sanitized, keyed by file
	GeneratedAt time.Time
}

// view model: categories -> labels -> files, pre-sorted so the template
// stays logic-free.

type fileView struct {
	Name       string
	Transcript string
}

type labelView struct {
	Label string
	Files []fileView
}

type categoryView struct {
	Name   string
	Total  int
	Labels []labelView
}

type statRow struct {
	Label string
	Count int
}

type page struct {
	GeneratedAt string
	Total       int
	Solved      int
	SolveRate   string
	NeedsHuman  int
	Errors      int

	FailureCategories []statRow
	TopTopics         []statRow
	Emotions          []statRow

	Problems  []categoryView
	Successes []labelView
}

// Write renders the dashboard to path.
func Write(path string, d Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, buildPage(d)); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func buildPage(d Data) page {
	p := page{
		GeneratedAt: d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Total:       d.Summary.Total,
		Solved:      d.Summary.Solved,
		SolveRate:   fmt.Sprintf("%.1f%%", d.Summary.SolveRate()),
		NeedsHuman:  d.Summary.NeedsHuman,
		Errors:      d.Summary.Errors,
	}

	p.FailureCategories = topRows(d.Summary.FailureCategories, 10)
	p.Emotions = topRows(d.Summary.UserEmotions, 10)

	topics := aggregate.Counter{}
	for t, st := range d.Summary.Topics {
		topics[t] = st.Count
	}
	p.TopTopics = topRows(topics, 10)

	var catNames []string
	for name := range d.Mapping.Problems {
		catNames = append(catNames, name)
	}
	sort.Strings(catNames)
	for _, name := range catNames {
		p.Problems = append(p.Problems, buildCategory(name, d.Mapping.Problems[name], d.Transcripts))
	}

	p.Successes = buildLabels(d.Mapping.Successes, d.Transcripts)
	return p
}

func buildCategory(name string, byLabel map[string][]string, transcripts map[string]string) categoryView {
	cv := categoryView{Name: name, Labels: buildLabels(byLabel, transcripts)}
	seen := map[string]bool{}
	for _, lv := range cv.Labels {
		for _, f := range lv.Files {
			if !seen[f.Name] {
				seen[f.Name] = true
				cv.Total++
			}
		}
	}
	return cv
}

func buildLabels(byLabel map[string][]string, transcripts map[string]string) []labelView {
	var labels []labelView
	for label, files := range byLabel {
		lv := labelView{Label: label}
		for _, f := range files {
			lv.Files = append(lv.Files, fileView{Name: f, Transcript: transcripts[f]})
		}
		labels = append(labels, lv)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i].Files) != len(labels[j].Files) {
			return len(labels[i].Files) > len(labels[j].Files)
		}
		return labels[i].Label < labels[j].Label
	})
	return labels
}

func topRows(c aggregate.Counter, limit int) []statRow {
	var rows []statRow
	for i, e := range c.Sorted() {
		if i >= limit {
			break
		}
		rows = append(rows, statRow{Label: e.Label, Count: e.Count})
	}
	return rows
}

var tmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chatbot Analysis Dashboard</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 960px; color: #1c1e21; }
h1 { border-bottom: 2px solid #e4e6eb; padding-bottom: .4rem; }
.meta { color: #65676b; font-size: .85rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1.5rem 0; }
.card { background: #f0f2f5; border-radius: 8px; padding: 1rem 1.4rem; min-width: 130px; }
.card .num { font-size: 1.6rem; font-weight: 700; }
.card .lbl { color: #65676b; font-size: .8rem; text-transform: uppercase; }
table { border-collapse: collapse; margin: .5rem 0 1.5rem; width: 100%; }
th, td { text-align: left; padding: .35rem .6rem; border-bottom: 1px solid #e4e6eb; }
th { background: #f0f2f5; }
details { margin: .3rem 0; }
details.category > summary { font-weight: 700; font-size: 1.05rem; cursor: pointer; padding: .4rem; background: #f0f2f5; border-radius: 6px; }
details.label { margin-left: 1.2rem; }
details.label > summary { cursor: pointer; }
details.file { margin-left: 2.4rem; }
details.file > summary { cursor: pointer; color: #385898; }
pre.transcript { background: #f7f8fa; border: 1px solid #e4e6eb; border-radius: 6px; padding: .8rem; white-space: pre-wrap; font-size: .82rem; }
.count { color: #65676b; font-weight: 400; }
</style>
</head>
<body>
<h1>Chatbot Analysis Dashboard</h1>
<p class="meta">Generated {{.GeneratedAt}}</p>

<div class="cards">
  <div class="card"><div class="num">{{.Total}}</div><div class="lbl">Conversations</div></div>
  <div class="card"><div class="num">{{.Solved}}</div><div class="lbl">Solved</div></div>
  <div class="card"><div class="num">{{.SolveRate}}</div><div class="lbl">Solve rate</div></div>
  <div class="card"><div class="num">{{.NeedsHuman}}</div><div class="lbl">Need human</div></div>
  <div class="card"><div class="num">{{.Errors}}</div><div class="lbl">Errors</div></div>
</div>

<h2>Failure Categories</h2>
<table><tr><th>Category</th><th>Count</th></tr>
{{range .FailureCategories}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Top Topics</h2>
<table><tr><th>Topic</th><th>Count</th></tr>
{{range .TopTopics}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>User Emotions</h2>
<table><tr><th>Emotion</th><th>Count</th></tr>
{{range .Emotions}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Problem Explorer</h2>
{{range .Problems}}
<details class="category">
  <summary>{{.Name}} <span class="count">({{.Total}} conversations)</span></summary>
  {{range .Labels}}
  <details class="label">
    <summary>{{.Label}} <span class="count">({{len .Files}} files)</span></summary>
    {{range .Files}}
    <details class="file">
      <summary>{{.Name}}</summary>
      {{if .Transcript}}<pre class="transcript">{{.Transcript}}</pre>{{else}}<p class="meta">No stored transcript.</p>{{end}}
    </details>
    {{end}}
  </details>
  {{end}}
</details>
{{end}}

<h2>Successful Capabilities</h2>
{{range .Successes}}
<details class="label">
  <summary>{{.Label}} <span class="count">({{len .Files}} files)</span></summary>
  {{range .Files}}
  <details class="file">
    <summary>{{.Name}}</summary>
    {{if .Transcript}}<pre class="transcript">{{.Transcript}}</pre>{{else}}<p class="meta">No stored transcript.</p>{{end}}
  </details>
  {{end}}
</details>
{{end}}

</body>
</html>
`))
