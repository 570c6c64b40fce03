package model

// Tag is a named, colored label owned by a board.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

const (
	RemovedTagName  = "Removed tag"
	RemovedTagColor = "#6B7280"
)

// TagColors is the palette new tags draw their color from.
var TagColors = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#f59e0b", // amber
	"#10b981", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#9333ea", // purple
	"#ec4899", // pink
	"#6b7280", // gray
}

// starterTags seeds every new board.
var starterTags = []struct{ name, color string }{
	{"Bug", "#ef4444"},
	{"Feature", "#3b82f6"},
	{"Improvement", "#10b981"},
	{"Urgent", "#f97316"},
	{"Documentation", "#9333ea"},
	{"Design", "#ec4899"},
	{"Research", "#06b6d4"},
	{"Refactor", "#f59e0b"},
	{"Chore", "#6b7280"},
}

// DefaultTags builds the starter tag set with fresh ids from newID.
func DefaultTags(newID func() string) []Tag {
	tags := make([]Tag, len(starterTags))
	for i, s := range starterTags {
		tags[i] = Tag{ID: newID(), Name: s.name, Color: s.color}
	}
	return tags
}
