package ast

// Field is a member looked up on an object. Present is false when the key
// is absent or its value is null.
type Field struct {
	Value   any
	Present bool
}

// Lookup returns the named member of obj. A nil obj (the owner was not an
// object) yields an absent field.
func Lookup(obj map[string]any, key string) Field {
	if obj == nil {
		return Field{}
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return Field{}
	}
	return Field{Value: v, Present: true}
}

// IsBlank returns true if the field is absent or holds an empty string.
// Identifier-like fields treat an empty string the same as a missing value.
func (f Field) IsBlank() bool {
	if !f.Present {
		return true
	}
	s, ok := f.Value.(string)
	return ok && s == ""
}

// Kind returns the kind of the field's value.
func (f Field) Kind() Kind {
	return KindOf(f.Value)
}
