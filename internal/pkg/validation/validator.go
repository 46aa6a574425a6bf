package validation

// Validator checks a struct against its `validate` tags and returns a
// message per offending field, or nil when the struct is valid.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
