// Package tokenset transforms DTCG-shaped design-token documents into
// dependency-ordered batches of leaf expressions, composes theme sets,
// and drives the interpreter over every leaf.
package tokenset

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tokens-studio/go-tokenscript/internal/errors"
)

// leaf is one flattened design token: its raw value string and declared
// type.
type leaf struct {
	value string
	typ   string
}

// Diagnostic records a non-fatal per-leaf problem. A diagnosed leaf is
// omitted from the output; the batch as a whole still succeeds.
type Diagnostic struct {
	Kind         errors.Kind
	Path         string
	Message      string
	Participants []string
}

// flattenDoc walks nested groups recursively, producing a map from
// dotted path to raw leaf. A leaf is an object carrying $value/$type or
// value/type, the standard form taking priority. Every other object is
// walked as a group; non-object values met along the way are skipped
// with a note. An object without leaf fields is never itself noted, so an
// empty object yields neither tokens nor a note.
func flattenDoc(node gjson.Result) (map[string]leaf, []Diagnostic) {
	out := make(map[string]leaf)
	var notes []Diagnostic
	flattenInto(node, "", out, &notes)
	return out, notes
}

func flattenInto(node gjson.Result, prefix string, out map[string]leaf, notes *[]Diagnostic) {
	node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if strings.HasPrefix(name, "$") {
			return true
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if !value.IsObject() {
			*notes = append(*notes, Diagnostic{
				Kind:    errors.MissingSchema,
				Path:    path,
				Message: "node is neither a group nor a token leaf",
			})
			return true
		}

		if isLeaf(value) {
			out[path] = leaf{
				value: leafValue(value),
				typ:   leafType(value),
			}
			return true
		}

		flattenInto(value, path, out, notes)
		return true
	})
}

func isLeaf(obj gjson.Result) bool {
	return obj.Get("$value").Exists() || obj.Get("value").Exists()
}

// leafValue stringifies the token value. Arrays join with ", "; scalars
// use their standard string form.
func leafValue(obj gjson.Result) string {
	v := obj.Get("$value")
	if !v.Exists() {
		v = obj.Get("value")
	}
	if v.IsArray() {
		parts := v.Array()
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = p.String()
		}
		return strings.Join(strs, ", ")
	}
	return v.String()
}

func leafType(obj gjson.Result) string {
	t := obj.Get("$type")
	if !t.Exists() {
		t = obj.Get("type")
	}
	return t.String()
}
