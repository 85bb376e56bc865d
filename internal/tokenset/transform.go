package tokenset

// Metadata accompanies a resolved token through the transform pass.
type Metadata struct {
	Path string
	Type string
}

// Transform is one post-resolution rewrite applied to tokens whose type
// matches TargetTypes (an empty list matches every type).
type Transform struct {
	Name              string
	TargetTypes       []string
	Transform         func(value string, meta Metadata) (string, error)
	TransformMetadata func(meta Metadata) Metadata
}

func (t Transform) matches(typ string) bool {
	if len(t.TargetTypes) == 0 {
		return true
	}
	for _, want := range t.TargetTypes {
		if want == typ {
			return true
		}
	}
	return false
}

// ApplyTransforms runs an ordered transform list over resolved tokens.
// With continueOnError set, a failing transform records a diagnostic and
// leaves the token untouched; otherwise the first failure aborts.
func ApplyTransforms(tokens map[string]string, types map[string]string, transforms []Transform, continueOnError bool) ([]Diagnostic, error) {
	var diags []Diagnostic

	for path, value := range tokens {
		meta := Metadata{Path: path, Type: types[path]}
		current := value
		for _, tr := range transforms {
			if tr.Transform == nil || !tr.matches(meta.Type) {
				continue
			}
			next, err := tr.Transform(current, meta)
			if err != nil {
				if !continueOnError {
					return diags, err
				}
				diags = append(diags, Diagnostic{
					Path:    path,
					Message: tr.Name + ": " + err.Error(),
				})
				continue
			}
			current = next
			if tr.TransformMetadata != nil {
				meta = tr.TransformMetadata(meta)
			}
		}
		tokens[path] = current
	}
	return diags, nil
}
