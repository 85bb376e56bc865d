package tokenset

import "github.com/tidwall/gjson"

// Selection states a theme assigns to a token set.
const (
	setSource   = "source"
	setEnabled  = "enabled"
	setDisabled = "disabled"
)

// theme is one $themes entry: a named selection over the document's
// top-level token sets.
type theme struct {
	name    string
	group   string
	source  []string
	enabled []string
}

// parseThemes reads the $themes array, preserving set order within each
// selection state.
func parseThemes(arr gjson.Result) []theme {
	var out []theme
	arr.ForEach(func(_, entry gjson.Result) bool {
		t := theme{
			name:  entry.Get("name").String(),
			group: entry.Get("group").String(),
		}
		entry.Get("selectedTokenSets").ForEach(func(setName, status gjson.Result) bool {
			switch status.String() {
			case setSource:
				t.source = append(t.source, setName.String())
			case setEnabled:
				t.enabled = append(t.enabled, setName.String())
			}
			return true
		})
		if t.name != "" {
			out = append(out, t)
		}
		return true
	})
	return out
}

// flatten unions the flattened maps of the theme's selected sets:
// source sets resolve first, enabled sets overlay them.
func (t theme) flatten(doc gjson.Result) (map[string]leaf, []Diagnostic) {
	merged := make(map[string]leaf)
	var notes []Diagnostic

	overlay := func(setName string) {
		set := doc.Get(escapeKey(setName))
		if !set.Exists() || !set.IsObject() {
			return
		}
		leaves, setNotes := flattenDoc(set)
		notes = append(notes, setNotes...)
		for path, lf := range leaves {
			merged[path] = lf
		}
	}

	for _, setName := range t.source {
		overlay(setName)
	}
	for _, setName := range t.enabled {
		overlay(setName)
	}
	return merged, notes
}
