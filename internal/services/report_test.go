package services

import (
	"strings"
	"testing"
	"time"

	"PM-TMPL/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGenerationHTML(t *testing.T) {
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	generation := &models.Generation{
		ID:           "gen-1",
		TemplateName: "Onboarding",
		TeamID:       5,
		StartDate:    start,
		Variables:    map[string]string{"employee": "Ana", "buddy": "<Bo>"},
		Projects: []models.Project{
			{
				Name:        "Onboard Ana",
				Description: strPtr("First two weeks"),
				StartDate:   start,
				DueDate:     start.AddDate(0, 0, 14),
				Details: &models.ProjectDetails{
					DetailsFields: models.DetailsFields{ClientName: "Acme"},
					KeywordsPlan: []models.KeywordPlanEntry{
						{Page: "/careers", MainKeyword: "jobs", MainKeywordVolume: 40, SubKeywords: []models.SubKeyword{
							{Keyword: "remote jobs", Volume: 10},
							{Keyword: "tech jobs", Volume: 5},
						}},
					},
				},
				Tasks: []models.Task{
					{Title: "Welcome Ana", Priority: models.PriorityMedium, StartDate: start, DueDate: start.AddDate(0, 0, 1)},
				},
			},
		},
	}

	html, err := RenderGenerationHTML(generation)
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "<h1>Onboarding</h1>")
	assert.Contains(t, out, "Team 5 &middot; starting 2024-01-08")
	assert.Contains(t, out, "<h2>Onboard Ana</h2>")
	assert.Contains(t, out, "2024-01-08 &rarr; 2024-01-22")
	assert.Contains(t, out, "<p>First two weeks</p>")
	assert.Contains(t, out, "<td>Acme</td>")
	assert.Contains(t, out, "remote jobs (10), tech jobs (5)")
	assert.Contains(t, out, "<td>Welcome Ana</td><td>medium</td><td>2024-01-08</td><td>2024-01-09</td>")
	assert.Contains(t, out, "&lt;Bo&gt;")
	assert.Less(t, strings.Index(out, "<th>buddy</th>"), strings.Index(out, "<th>employee</th>"))
}

func TestRenderGenerationHTML_NoProjects(t *testing.T) {
	html, err := RenderGenerationHTML(&models.Generation{TemplateName: "Empty", StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Empty</h1>")
	assert.NotContains(t, string(html), "<h2>Variables</h2>")
}

