package reporting

// MessageType is the kind of a log entry.
type MessageType int

// Log entry kinds. Image and StackTrace are internal kinds, only extended backends receive them.
const (
	Standard MessageType = iota
	ActionTitle
	Notify
	Skipped
	Failed
	Image
	StackTrace
)

var messageTypeNames = map[MessageType]string{
	Standard:    "Standard",
	ActionTitle: "ActionTitle",
	Notify:      "Notify",
	Skipped:     "Skipped",
	Failed:      "Failed",
	Image:       "Image",
	StackTrace:  "StackTrace",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsInternal ...
func (t MessageType) IsInternal() bool {
	return t == Image || t == StackTrace
}
