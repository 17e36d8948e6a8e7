package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"PM-TMPL/internal/processor"
	"PM-TMPL/internal/services"

	"github.com/spf13/cobra"
)

var (
	generateTeam  uint
	generateStart string
	generateVars  []string
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders <template-id>",
	Short: "Print the placeholder names a template needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.templates().GetPlaceholders(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <template-id>",
	Short: "Create a team's projects and tasks from a template",
	Example: `  pmtmpl generate 0b6f6a9e-2c1d-4d8e-9a51-5d2f3c7e8a10 --team 5 --start 2024-01-08 \
    --var employee=Ana --var buddy=Bo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variables, err := parseVars(generateVars)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.generations().Generate(cmd.Context(), services.GenerationRequest{
			TemplateID: args[0],
			TeamID:     generateTeam,
			StartDate:  generateStart,
			Variables:  variables,
		})
		if err != nil {
			return err
		}

		summary := struct {
			GenerationID string   `json:"generation_id"`
			Projects     []string `json:"projects"`
			Tasks        int      `json:"tasks"`
		}{GenerationID: result.Generation.ID, Tasks: len(result.Tasks)}
		for _, p := range result.Projects {
			summary.Projects = append(summary.Projects,
				fmt.Sprintf("%s (%s..%s)", p.Name, processor.FormatDate(p.StartDate), processor.FormatDate(p.DueDate)))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	generateCmd.Flags().UintVar(&generateTeam, "team", 0, "Team that receives the projects")
	generateCmd.Flags().StringVar(&generateStart, "start", "", "Anchor date, YYYY-MM-DD")
	generateCmd.Flags().StringArrayVar(&generateVars, "var", nil, "Placeholder value as name=value (repeatable)")
	_ = generateCmd.MarkFlagRequired("team")
	_ = generateCmd.MarkFlagRequired("start")
}

// parseVars splits name=value pairs on the first '='. Names are kept
// verbatim, so "--var ' a '=x" sets the placeholder "{ a }".
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		vars[name] = value
	}
	return vars, nil
}
