package retention

import (
	"strings"
)

// CategoryOf returns the category of the tag, which is the tag with all
// decimal digits removed. The empty string is a valid category.
func CategoryOf(tag string) string {
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return -1
		}
		return r
	}, tag)
}

// OrdinalOf returns the ordinal of the tag, made of all decimal digits
// of the tag concatenated. A tag without digits has the zero ordinal.
func OrdinalOf(tag string) Ordinal {
	var b strings.Builder
	for _, r := range tag {
		if !isDigit(r) {
			continue
		}
		// leading zeros carry no value
		if b.Len() == 0 && r == '0' {
			continue
		}
		b.WriteRune(r)
	}
	return Ordinal(b.String())
}

// Ordinal is an arbitrary precision non-negative integer kept as its
// decimal digits without leading zeros. The zero value represents 0.
type Ordinal string

// String returns the decimal form of the ordinal.
func (o Ordinal) String() string {
	if o == "" {
		return "0"
	}
	return string(o)
}

// IsZero reports whether the ordinal is 0.
func (o Ordinal) IsZero() bool {
	return o == ""
}

// Compare returns -1, 0 or +1 depending on whether o is less than, equal
// to or greater than other.
func (o Ordinal) Compare(other Ordinal) int {
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return strings.Compare(string(o), string(other))
}

// Tag is a tag string annotated with its derived category and ordinal.
type Tag struct {
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Ordinal  Ordinal `json:"ordinal" yaml:"ordinal"`
}

// NewTag parses the raw tag string.
func NewTag(name string) Tag {
	return Tag{
		Name:     name,
		Category: CategoryOf(name),
		Ordinal:  OrdinalOf(name),
	}
}

// String returns the raw tag string.
func (t Tag) String() string {
	return t.Name
}

// isDigit only accepts ASCII digits, unicode.IsDigit would also match
// other scripts.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
