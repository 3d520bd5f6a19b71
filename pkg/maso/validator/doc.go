// Package validator checks parsed MASO documents against the workload
// schema.
//
// Validation runs in two passes. The structural pass checks the metadata
// block and the shape of the processes block. When the processes block
// names a mode and carries an elements array, Dispatch selects the element
// schema for that mode and the resulting ProcessSet checks every element.
//
// Violations are accumulated rather than returned on the first failure, so
// a single run reports everything wrong with a document:
//
//	v := validator.NewValidator()
//	for _, d := range v.Validate(text) {
//	    fmt.Println(d)
//	}
//
// Within an element, presence checks come first, then type checks, then
// value checks, then uniqueness. A field that fails its type check is not
// value-checked.
package validator
