package metrics

import "github.com/alexanderramin/sprintboard/internal/domain"

// Column is one lane of the task board.
type Column struct {
	Title string
	Tasks []domain.Task
}

// Board groups tasks into To Do, In Progress and Done lanes. A non-empty
// sprintID keeps only that sprint's tasks. Tasks with an unrecognized
// status appear in no lane.
func Board(tasks []domain.Task, sprintID string) []Column {
	cols := []Column{{Title: "To Do"}, {Title: "In Progress"}, {Title: "Done"}}
	for _, t := range tasks {
		if sprintID != "" && t.Sprint != sprintID {
			continue
		}
		switch t.CurrentStatus() {
		case domain.StatusPending, domain.StatusPlanned:
			cols[0].Tasks = append(cols[0].Tasks, t)
		case domain.StatusInProgress:
			cols[1].Tasks = append(cols[1].Tasks, t)
		case domain.StatusCompleted:
			cols[2].Tasks = append(cols[2].Tasks, t)
		}
	}
	return cols
}
