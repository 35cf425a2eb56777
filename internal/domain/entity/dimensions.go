package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are numbers on the wire, matching the stored documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// Dimensions is the scope every fee, discount and collection belongs to.
type Dimensions struct {
	Class   string `json:"class"`
	Group   string `json:"group"`
	Section string `json:"section"`
	Session string `json:"session"`
}

// Normalize trims surrounding whitespace from every field.
func (d Dimensions) Normalize() Dimensions {
	return Dimensions{
		Class:   strings.TrimSpace(d.Class),
		Group:   strings.TrimSpace(d.Group),
		Section: strings.TrimSpace(d.Section),
		Session: strings.TrimSpace(d.Session),
	}
}

// Matches compares all four fields after trimming.
func (d Dimensions) Matches(o Dimensions) bool {
	return d.Normalize() == o.Normalize()
}

// Incomplete returns the JSON names of the empty fields.
func (d Dimensions) Incomplete() []string {
	n := d.Normalize()
	var missing []string
	if n.Class == "" {
		missing = append(missing, "class")
	}
	if n.Group == "" {
		missing = append(missing, "group")
	}
	if n.Section == "" {
		missing = append(missing, "section")
	}
	if n.Session == "" {
		missing = append(missing, "session")
	}
	return missing
}

// Label renders the scope for printing.
func (d Dimensions) Label() string {
	n := d.Normalize()
	return strings.Join([]string{n.Class, n.Group, n.Section, n.Session}, " / ")
}
