package docsystem

import (
	"fmt"

	"reportdesk/internal/domain"
)

// SearchField defines which document fields a search filter inspects
type SearchField string

const (
	// SearchFieldName searches the document name
	SearchFieldName SearchField = "name"

	// SearchFieldDescription searches the optional description
	SearchFieldDescription SearchField = "description"

	// SearchFieldContent searches inline content when it is textual
	SearchFieldContent SearchField = "content"
)

// DefaultSearchFields are used when SearchOptions.Fields is empty
var DefaultSearchFields = []SearchField{SearchFieldName, SearchFieldDescription, SearchFieldContent}

// SearchOptions configures the flat substring filter over a candidate list
type SearchOptions struct {
	// Query is the substring to look for; empty means "no filter"
	Query string

	// Fields restricts which fields are matched
	// Default: name, description, content
	Fields []SearchField
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if len(opts.Fields) == 0 {
		opts.Fields = DefaultSearchFields
	}
}

// Validate checks that the configured fields are supported
func (opts *SearchOptions) Validate() error {
	for _, field := range opts.Fields {
		switch field {
		case SearchFieldName, SearchFieldDescription, SearchFieldContent:
		default:
			return &domain.ValidationError{
				Message: fmt.Sprintf("invalid search field: %q (supported: name, description, content)", field),
			}
		}
	}
	return nil
}

// SearchHit is a matching document with its location in the pool
type SearchHit struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        NodeType `json:"type"`
	Description string   `json:"description,omitempty"`
	Path        string   `json:"path"`
}
