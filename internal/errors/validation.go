package errors

import "fmt"

// ValidationError represents a validation error with detailed context
type ValidationError struct {
	*BaseError
	Field      string      // field that failed validation
	Value      interface{} // the value that failed validation
	Constraint string      // the validation constraint that failed
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, constraint string) *ValidationError {
	message := fmt.Sprintf("invalid %s: %s", field, constraint)

	return &ValidationError{
		BaseError:  New(ValidationErrorCode, message),
		Field:      field,
		Value:      value,
		Constraint: constraint,
	}
}

// WithLocation adds location information to the error
func (e *ValidationError) WithLocation(loc SourceLocation) *ValidationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithContext adds context data to the error
func (e *ValidationError) WithContext(key string, value interface{}) *ValidationError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// KeywordCollisionError reports an identifier that is a reserved C# keyword. The
// projector does not escape identifiers; the caller decides how to.
type KeywordCollisionError struct {
	*BaseError
	Identifier string
	Role       string // "method", "property", "parameter" or "type parameter"
}

// NewKeywordCollisionError creates a keyword collision error
func NewKeywordCollisionError(role, identifier string) *KeywordCollisionError {
	err := &KeywordCollisionError{
		BaseError:  New(KeywordCollisionErrorCode, fmt.Sprintf("%s name '%s' is a reserved keyword", role, identifier)),
		Identifier: identifier,
		Role:       role,
	}
	err.WithContext("identifier", identifier).
		WithSuggestions(
			fmt.Sprintf("Escape the identifier as '@%s'", identifier),
			"Enable generation.escape_keywords to escape reserved identifiers automatically",
		)
	return err
}

// WithLocation adds location information to the error
func (e *KeywordCollisionError) WithLocation(loc SourceLocation) *KeywordCollisionError {
	e.BaseError.WithLocation(loc)
	return e
}

// SyntaxError represents a type reference that could not be parsed
type SyntaxError struct {
	*BaseError
	Input    string // the text that failed to parse
	Position int    // byte offset in the input where the error occurred
}

// NewSyntaxErrorWithInput creates a syntax error carrying the offending text
func NewSyntaxErrorWithInput(message, input string, position int) *SyntaxError {
	err := &SyntaxError{
		BaseError: New(SyntaxErrorCode, fmt.Sprintf("%s in %q", message, input)),
		Input:     input,
		Position:  position,
	}
	err.WithContext("input", input).WithContext("position", position)
	return err
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// GenerationError represents an error that occurred while emitting a generated unit
type GenerationError struct {
	*BaseError
	InterfaceName string // interface being generated
	TargetFile    string // generated unit name
	Stage         string // "project", "render" or "write"
}
