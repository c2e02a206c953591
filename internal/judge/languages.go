package judge

import "strings"

// languageIDs maps language names to execution service language IDs.
// The set is open: new entries are added as the service supports them.
var languageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"c++":        54,
	"csharp":     51,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"kotlin":     78,
	"php":        68,
	"python":     71,
	"python3":    71,
	"ruby":       72,
	"rust":       73,
	"sql":        82,
	"swift":      83,
	"typescript": 74,
}

// LanguageID resolves a language name (case-insensitive) to the
// execution service's numeric ID. ok is false for unsupported names.
func LanguageID(name string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}
