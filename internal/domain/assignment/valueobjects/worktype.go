package valueobjects

import "fmt"

// WorkItemType names the kind of record that is routed to a staff member.
type WorkItemType string

const (
	WorkItemDossier  WorkItemType = "dossier"
	WorkItemTicket   WorkItemType = "ticket"
	WorkItemPosition WorkItemType = "position"
	WorkItemTask     WorkItemType = "task"
)

var validWorkItemTypes = map[WorkItemType]bool{
	WorkItemDossier:  true,
	WorkItemTicket:   true,
	WorkItemPosition: true,
	WorkItemTask:     true,
}

func (t WorkItemType) String() string {
	return string(t)
}

func (t WorkItemType) IsValid() bool {
	return validWorkItemTypes[t]
}

func NewWorkItemType(s string) (WorkItemType, error) {
	t := WorkItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid work item type: %s", s)
	}
	return t, nil
}

// AllWorkItemTypes lists every type in a stable order.
func AllWorkItemTypes() []WorkItemType {
	return []WorkItemType{WorkItemDossier, WorkItemTicket, WorkItemPosition, WorkItemTask}
}
