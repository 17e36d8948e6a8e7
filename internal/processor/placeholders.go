package processor

import (
	"regexp"

	"PM-TMPL/internal/models"
)

// placeholderPattern matches a "{" followed by the shortest run of non-"}"
// characters and the closing "}". The captured name is kept verbatim.
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ExtractPlaceholders returns the distinct placeholder names in text, in
// order of first occurrence.
func ExtractPlaceholders(text string) []string {
	var placeholders []string
	seen := make(map[string]bool)

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if !seen[name] {
			placeholders = append(placeholders, name)
			seen[name] = true
		}
	}

	return placeholders
}

// ExtractTemplatePlaceholders returns every distinct placeholder used
// anywhere in the template. Fields are visited in a fixed order (template
// description, then each project definition's name, description and details
// fields followed by its tasks' title and description) so the result is
// deterministic.
func ExtractTemplatePlaceholders(template *models.Template) []string {
	var placeholders []string
	seen := make(map[string]bool)

	visitTemplateText(template, func(text string) {
		for _, name := range ExtractPlaceholders(text) {
			if !seen[name] {
				placeholders = append(placeholders, name)
				seen[name] = true
			}
		}
	})

	return placeholders
}

// FirstMissing returns the first placeholder with no entry in variables.
func FirstMissing(placeholders []string, variables map[string]string) (string, bool) {
	for _, name := range placeholders {
		if _, ok := variables[name]; !ok {
			return name, true
		}
	}
	return "", false
}

// Substitute replaces each {name} in text with variables[name] in a single
// left-to-right pass. Replacement values are not rescanned. Tokens without a
// variable are left untouched.
func Substitute(text string, variables map[string]string) string {
	if len(variables) == 0 {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		if value, ok := variables[token[1:len(token)-1]]; ok {
			return value
		}
		return token
	})
}

// SubstitutePtr is Substitute for nullable text; nil stays nil.
func SubstitutePtr(text *string, variables map[string]string) *string {
	if text == nil {
		return nil
	}
	out := Substitute(*text, variables)
	return &out
}

// SubstituteDetails returns a copy of fields with every text field substituted.
func SubstituteDetails(fields models.DetailsFields, variables map[string]string) models.DetailsFields {
	out := fields
	for _, field := range out.TextFields() {
		*field = Substitute(*field, variables)
	}
	return out
}

func visitTemplateText(template *models.Template, visit func(string)) {
	if template == nil {
		return
	}
	visitPtr(template.Description, visit)

	for i := range template.Projects {
		project := &template.Projects[i]
		visit(project.Name)
		visitPtr(project.Description, visit)

		if project.Details != nil {
			for _, field := range project.Details.TextFields() {
				visit(*field)
			}
		}

		for j := range project.Tasks {
			task := &project.Tasks[j]
			visit(task.Title)
			visitPtr(task.Description, visit)
		}
	}
}

func visitPtr(text *string, visit func(string)) {
	if text != nil {
		visit(*text)
	}
}
