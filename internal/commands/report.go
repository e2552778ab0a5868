package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// reportTask is the serialised form of one task in a report.
type reportTask struct {
	ID       uint          `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Hours    float64       `json:"hours" yaml:"hours"`
	OwnHours float64       `json:"own_hours" yaml:"own_hours"`
	Children []*reportTask `json:"children,omitempty" yaml:"children,omitempty"`
}

type report struct {
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	TotalHours  float64       `json:"total_hours" yaml:"total_hours"`
	Tasks       []*reportTask `json:"tasks" yaml:"tasks"`
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the task tree with tracked hours",
		Long: `Export every task as a nested document with total and own hours.

With --query, the JSON report is filtered through a GJSON path and only
the match is printed.

Examples:
  hourtree report                 # YAML
  hourtree report --format json
  hourtree report -q total_hours
  hourtree report -q 'tasks.#.path'
  hourtree report -q 'tasks.#(name=="Work").children.#.hours'`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			query, _ := cmd.Flags().GetString("query")

			r, err := a.buildReport()
			if err != nil {
				return err
			}

			if query != "" {
				return queryReport(cmd, r, query)
			}

			var data []byte
			switch format {
			case "yaml", "yml":
				data, err = yaml.Marshal(r)
			case "json":
				data, err = json.MarshalIndent(r, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		}),
	}

	cmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringP("query", "q", "", "GJSON path to extract from the JSON report")
	return cmd
}

// buildReport nests the pre-order summary back into a tree.
func (a *app) buildReport() (*report, error) {
	rows, err := a.tasks.Summary()
	if err != nil {
		return nil, err
	}

	r := &report{GeneratedAt: time.Now().UTC().Truncate(time.Second), Tasks: []*reportTask{}}

	// Pre-order: the last entry at each depth is the parent of the next deeper row.
	var stack []*reportTask
	for _, row := range rows {
		t := &reportTask{
			ID:       row.ID,
			Name:     row.Name,
			Path:     a.tasks.Path(row.ID),
			Hours:    round2(row.Hours),
			OwnHours: round2(row.OwnHours),
		}

		if row.Depth < len(stack) {
			stack = stack[:row.Depth]
		}
		if row.Depth == 0 || len(stack) == 0 {
			r.Tasks = append(r.Tasks, t)
			r.TotalHours += row.Hours
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, t)
		}
		stack = append(stack, t)
	}
	r.TotalHours = round2(r.TotalHours)

	return r, nil
}

// queryReport prints the part of the JSON report matched by a GJSON path.
func queryReport(cmd *cobra.Command, r *report, query string) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	result := gjson.GetBytes(data, query)
	if !result.Exists() {
		return fmt.Errorf("query %q matched nothing", query)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
