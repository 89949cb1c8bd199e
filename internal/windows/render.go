package windows

import (
	"html/template"
	"strings"

	"memorize/internal/documents"
	"memorize/internal/stack"
)

var panel = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>memorize</title>
<style>
    .call-stack { margin: 10px; font-family: monospace; }
    .stack-frame { padding: 10px; }
    .stack-frame-location a { color: #2e7d32; }
    .stack-frame-selected { border: 1px solid #f9a825; }
    .keyword { color: #8959a8; }
    .string { color: #718c00; }
    .comment { color: #8e908c; font-style: italic; }
    .number, .constant { color: #f5871f; }
    .type { color: #c99e00; }
    .function { color: #4271ae; }
</style>
</head>
<body>
<div class="call-stack">
<div class="stack-header">stack {{.Stack}} of {{.Stacks}}, {{len .Frames}} frames</div>
{{range .Frames}}<div class="stack-frame{{if .Selected}} stack-frame-selected{{end}}" id="frame-{{.Index}}">
    <div class="stack-frame-location">
        <a href="{{.Href}}">{{.Path}}:L{{.Line}}</a>
    </div>
    <pre><code class="stack-frame-code">{{.Code}}</code></pre>
</div>
{{end}}</div>
</body>
</html>
`))

type panelFrame struct {
	Index    int
	Selected bool
	Href     template.URL
	Path     string
	Line     int
	Code     template.HTML
}

// Render lays out stack as an HTML panel. Frame code is captured HTML and is
// inserted without escaping.
func Render(s *stack.CallStack, stackIdx, stackCount int) (string, error) {
	data := struct {
		Stack  int
		Stacks int
		Frames []panelFrame
	}{Stack: stackIdx + 1, Stacks: stackCount}

	for i, f := range s.Frames() {
		data.Frames = append(data.Frames, panelFrame{
			Index:    i,
			Selected: i == s.Index(),
			Href:     template.URL(documents.PathToURI(f.Path)),
			Path:     f.Path,
			Line:     f.Line,
			Code:     template.HTML(f.Code),
		})
	}

	var b strings.Builder
	if err := panel.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
