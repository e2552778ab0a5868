package tree

import "fmt"

// SummaryRow is a tree node annotated with tracked hours.
type SummaryRow struct {
	Node
	// Hours includes every descendant; OwnHours only the task itself.
	Hours    float64
	OwnHours float64
}

// Summary returns the pre-order tree with hours for each node.
func (m *Manager) Summary() ([]SummaryRow, error) {
	nodes, err := m.Tree()
	if err != nil {
		return nil, err
	}

	rows := make([]SummaryRow, 0, len(nodes))
	for _, n := range nodes {
		own, err := m.store.TotalHours(n.ID, false)
		if err != nil {
			return nil, fmt.Errorf("hours for task #%d: %w", n.ID, err)
		}
		total, err := m.store.TotalHours(n.ID, true)
		if err != nil {
			return nil, fmt.Errorf("hours for task #%d: %w", n.ID, err)
		}
		rows = append(rows, SummaryRow{Node: n, Hours: total, OwnHours: own})
	}

	return rows, nil
}
