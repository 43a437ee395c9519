package pipeline

// State tracks one archive's progress through the pipeline. Transitions only
// move forward; Classified is terminal.
type State int

const (
	Pending State = iota
	MetadataExtracted
	Resolved
	Unresolved
	Audited
	Scanned
	Classified
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case MetadataExtracted:
		return "metadata-extracted"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case Audited:
		return "audited"
	case Scanned:
		return "scanned"
	case Classified:
		return "classified"
	default:
		return "unknown"
	}
}
