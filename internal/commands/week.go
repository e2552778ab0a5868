package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/models"
	"github.com/balkashynov/hourtree/internal/parser"
	"github.com/balkashynov/hourtree/internal/tree"
)

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func newWeekCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a weekly timesheet",
		Long: `Show hours tracked per task and day for one calendar week (Monday to Sunday).

With --depth N, time is rolled up to the ancestor at depth N, so --depth 0
reports per root task.

Examples:
  hourtree week                  # this week
  hourtree week --week last      # previous week
  hourtree week --week -3        # three weeks ago
  hourtree week --week 14/02/2024 --depth 0`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			weekArg, _ := cmd.Flags().GetString("week")
			depth, _ := cmd.Flags().GetInt("depth")

			weekStart, err := parser.ParseWeek(weekArg, time.Now())
			if err != nil {
				return err
			}
			weekEnd := weekStart.AddDate(0, 0, 7)

			entries, err := a.store.TimespansInRange(weekStart, weekEnd)
			if err != nil {
				return fmt.Errorf("failed to get timespans: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No time tracked in the week of %s.\n", weekStart.Format("Jan 2, 2006"))
				return nil
			}

			nodes, err := a.tasks.Tree()
			if err != nil {
				return err
			}

			sheet := buildTimesheet(entries, nodes, depth, func(id uint) string { return a.tasks.Path(id) })
			sheet.render(cmd.OutOrStdout(), weekStart)
			return nil
		}),
	}

	cmd.Flags().StringP("week", "w", "", "Week: this, last, -N or dd/mm/yyyy")
	cmd.Flags().IntP("depth", "d", -1, "Roll hours up to tasks at this depth (-1 keeps leaves)")
	return cmd
}

// timesheetRow is one task line of a weekly timesheet.
type timesheetRow struct {
	TaskID uint
	Label  string
	Days   map[time.Weekday]float64
	Total  float64
}

type timesheet struct {
	Rows   []timesheetRow
	Totals map[time.Weekday]float64
	Total  float64
}

// buildTimesheet groups closed timespans by task and weekday. When depth is
// non-negative, deeper tasks are folded into their ancestor at that depth.
// Rows follow tree order.
func buildTimesheet(entries []models.TimespanEntry, nodes []tree.Node, depth int, label func(uint) string) timesheet {
	order := make(map[uint]int, len(nodes))
	byID := make(map[uint]tree.Node, len(nodes))
	for i, n := range nodes {
		order[n.ID] = i
		byID[n.ID] = n
	}

	rollUp := func(id uint) uint {
		if depth < 0 {
			return id
		}
		n, ok := byID[id]
		for ok && n.Depth > depth && n.ParentID != nil {
			n, ok = byID[*n.ParentID]
		}
		if !ok {
			return id
		}
		return n.ID
	}

	rows := make(map[uint]*timesheetRow)
	sheet := timesheet{Totals: make(map[time.Weekday]float64)}

	for _, e := range entries {
		id := rollUp(e.TaskID)
		row, ok := rows[id]
		if !ok {
			row = &timesheetRow{TaskID: id, Label: label(id), Days: make(map[time.Weekday]float64)}
			rows[id] = row
		}

		hours := e.Hours()
		day := e.StartTime.Local().Weekday()
		row.Days[day] += hours
		row.Total += hours
		sheet.Totals[day] += hours
		sheet.Total += hours
	}

	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, *row)
	}
	sort.Slice(sheet.Rows, func(i, j int) bool {
		oi, iok := order[sheet.Rows[i].TaskID]
		oj, jok := order[sheet.Rows[j].TaskID]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return sheet.Rows[i].TaskID < sheet.Rows[j].TaskID
	})

	return sheet
}

// render prints the timesheet table
func (s timesheet) render(out io.Writer, weekStart time.Time) {
	labelWidth := 20
	for _, r := range s.Rows {
		if len(r.Label) > labelWidth {
			labelWidth = len(r.Label)
		}
	}
	if labelWidth > 40 {
		labelWidth = 40 // Cap at 40 chars
	}

	const colWidth = 6
	separator := strings.Repeat("-", labelWidth) + strings.Repeat("  "+strings.Repeat("-", colWidth), len(weekdays)+1)

	// Print header
	fmt.Fprintf(out, "%-*s", labelWidth, "Task")
	for _, d := range weekdays {
		fmt.Fprintf(out, "  %*s", colWidth, d.String()[:3])
	}
	fmt.Fprintf(out, "  %*s\n", colWidth, "Total")
	fmt.Fprintln(out, separator)

	for _, r := range s.Rows {
		label := r.Label
		if len(label) > labelWidth {
			label = "..." + label[len(label)-labelWidth+3:]
		}

		fmt.Fprintf(out, "%-*s", labelWidth, label)
		for _, d := range weekdays {
			fmt.Fprintf(out, "  %*s", colWidth, formatHours(r.Days[d]))
		}
		fmt.Fprintf(out, "  %*s\n", colWidth, formatHours(r.Total))
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "%-*s", labelWidth, "Total")
	for _, d := range weekdays {
		fmt.Fprintf(out, "  %*s", colWidth, formatHours(s.Totals[d]))
	}
	fmt.Fprintf(out, "  %*s\n", colWidth, formatHours(s.Total))

	fmt.Fprintf(out, "\nWeek of %s to %s\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}
