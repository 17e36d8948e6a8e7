package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/processor"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

// ReportService renders a generation brief as PDF through Gotenberg.
type ReportService struct {
	client     *gotenberg.Client
	timeout    time.Duration
	maxRetries int
}

func NewReportService(gotenbergURL string, timeoutStr string) (*ReportService, error) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		slog.Warn("invalid gotenberg timeout, using default", "value", timeoutStr, "default", timeout)
	}

	client, err := gotenberg.NewClient(gotenbergURL, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &ReportService{
		client:     client,
		timeout:    timeout,
		maxRetries: 3,
	}, nil
}

// RenderGenerationPDF converts the generation brief to PDF. The caller closes
// the returned reader.
func (s *ReportService) RenderGenerationPDF(ctx context.Context, generation *models.Generation) (io.ReadCloser, error) {
	html, err := RenderGenerationHTML(generation)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		body, err := s.convert(ctx, html)
		if err == nil {
			return body, nil
		}

		lastErr = err
		slog.Warn("pdf conversion attempt failed",
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"generation_id", generation.ID,
			"error", err)

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	return nil, fmt.Errorf("failed to convert report after %d attempts: %w", s.maxRetries, lastErr)
}

func (s *ReportService) convert(ctx context.Context, html []byte) (io.ReadCloser, error) {
	convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	index, err := document.FromString("index.html", string(html))
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	resp, err := s.client.Send(convertCtx, gotenberg.NewHTMLRequest(index))
	if err != nil {
		return nil, err
	}

	// read fully so the body outlives convertCtx
	defer resp.Body.Close()
	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted report: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}

	return io.NopCloser(bytes.NewReader(pdf)), nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": processor.FormatDate,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.TemplateName}}</title>
<style>
body { font-family: sans-serif; font-size: 11pt; }
table { border-collapse: collapse; width: 100%; margin-bottom: 16px; }
th, td { border: 1px solid #ccc; padding: 4px 6px; text-align: left; }
</style>
</head>
<body>
<h1>{{.TemplateName}}</h1>
<p>Team {{.TeamID}} &middot; starting {{date .StartDate}}</p>
{{if .Variables}}<h2>Variables</h2>
<table>{{range .Variables}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>{{end}}</table>{{end}}
{{range .Projects}}
<h2>{{.Name}}</h2>
<p>{{date .StartDate}} &rarr; {{date .DueDate}}</p>
{{with deref .Description}}<p>{{.}}</p>{{end}}
{{with .Details}}<table>
<tr><th>Client</th><td>{{.ClientName}}</td></tr>
<tr><th>Website</th><td>{{.Website}}</td></tr>
<tr><th>Niche</th><td>{{.Niche}}</td></tr>
<tr><th>Target audience</th><td>{{.TargetAudience}}</td></tr>
<tr><th>Goals</th><td>{{.Goals}}</td></tr>
<tr><th>Competitors</th><td>{{.Competitors}}</td></tr>
<tr><th>Notes</th><td>{{.Notes}}</td></tr>
</table>
{{if .KeywordsPlan}}<table>
<tr><th>Page</th><th>Main keyword</th><th>Volume</th><th>Sub keywords</th></tr>
{{range .KeywordsPlan}}<tr><td>{{.Page}}</td><td>{{.MainKeyword}}</td><td>{{.MainKeywordVolume}}</td><td>{{range $i, $k := .SubKeywords}}{{if $i}}, {{end}}{{$k.Keyword}} ({{$k.Volume}}){{end}}</td></tr>
{{end}}</table>{{end}}{{end}}
<table>
<tr><th>Task</th><th>Priority</th><th>Start</th><th>Due</th></tr>
{{range .Tasks}}<tr><td>{{.Title}}</td><td>{{.Priority}}</td><td>{{date .StartDate}}</td><td>{{date .DueDate}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

type reportVariable struct {
	Name  string
	Value string
}

type reportView struct {
	TemplateName string
	TeamID       uint
	StartDate    time.Time
	Variables    []reportVariable
	Projects     []models.Project
}

// RenderGenerationHTML renders the brief that RenderGenerationPDF converts.
func RenderGenerationHTML(generation *models.Generation) ([]byte, error) {
	view := reportView{
		TemplateName: generation.TemplateName,
		TeamID:       generation.TeamID,
		StartDate:    generation.StartDate,
		Projects:     generation.Projects,
	}
	for name, value := range generation.Variables {
		view.Variables = append(view.Variables, reportVariable{Name: name, Value: value})
	}
	sort.Slice(view.Variables, func(i, j int) bool { return view.Variables[i].Name < view.Variables[j].Name })

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
