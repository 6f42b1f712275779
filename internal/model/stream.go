package model

import (
	"fmt"
	"strings"
)

// StreamName identifies the event stream of one aggregate instance, encoded
// as "<category>-<id>". The category must not itself contain a dash, so the
// first dash always splits the two parts.
type StreamName string

// NewStreamName builds a stream name from its parts.
func NewStreamName(category, id string) (StreamName, error) {
	if err := ValidateCategory(category); err != nil {
		return "", err
	}
	if id == "" {
		return "", &InvalidInputError{Field: "id", Reason: "must not be empty"}
	}
	return StreamName(category + "-" + id), nil
}

// Category returns the category part of the stream name.
func (s StreamName) Category() string {
	name := string(s)
	if i := strings.IndexByte(name, '-'); i >= 0 {
		return name[:i]
	}
	return name
}

// EntityID returns the id part of the stream name, or "" if the name has no
// id part.
func (s StreamName) EntityID() string {
	name := string(s)
	if i := strings.IndexByte(name, '-'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func (s StreamName) String() string { return string(s) }

// InCategory reports whether the stream belongs to the given category.
func (s StreamName) InCategory(category string) bool {
	return s.Category() == category
}

// ValidateCategory checks that a category is a short ASCII identifier:
// letters, digits, and underscores, starting with a letter.
func ValidateCategory(category string) error {
	if category == "" {
		return &InvalidInputError{Field: "category", Reason: "must not be empty"}
	}
	for i, r := range category {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '_' && i > 0:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return &InvalidInputError{
				Field:  "category",
				Reason: fmt.Sprintf("invalid character %q", r),
			}
		}
	}
	return nil
}
