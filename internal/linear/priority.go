package linear

import "fmt"

// Priority is the integer encoding Linear uses on the wire: 0 is none and 1
// is the most urgent.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityUrgent Priority = 1
	PriorityHigh   Priority = 2
	PriorityNormal Priority = 3
	PriorityLow    Priority = 4
)

func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "None"
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// AllPriorities returns the selectable priorities in prompt order.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityNone}
}

// PriorityFromFlag maps the CLI encoding (1 Low, 2 Normal, 3 High, 4 Urgent)
// onto the wire encoding.
func PriorityFromFlag(n int) (Priority, error) {
	switch n {
	case 1:
		return PriorityLow, nil
	case 2:
		return PriorityNormal, nil
	case 3:
		return PriorityHigh, nil
	case 4:
		return PriorityUrgent, nil
	default:
		return PriorityNone, fmt.Errorf("priority %d is not valid, must choose between 1 and 4", n)
	}
}
