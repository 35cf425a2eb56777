package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FeeType is the configured amount of one named fee for one scope. Records
// are never edited; a newer record for the same scope and name is appended.
type FeeType struct {
	ID string `json:"id"`
	Dimensions
	FeesType        string          `json:"fees_type"`
	FeesAmount      decimal.Decimal `json:"fees_amount"`
	PayableLastDate Date            `json:"payable_last_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Is reports whether f is the fee named name in scope dims.
func (f FeeType) Is(dims Dimensions, name string) bool {
	return strings.TrimSpace(f.FeesType) == strings.TrimSpace(name) && f.Dimensions.Matches(dims)
}

// FeeTypeList is an ordered list of fee type names. It is a comma-joined
// string on the wire and accepts either a string or an array when decoding.
type FeeTypeList []string

// ParseFeeTypeList splits a comma-joined list, dropping blanks.
func ParseFeeTypeList(s string) FeeTypeList {
	var out FeeTypeList
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Unique drops blanks and repeated names, keeping first occurrences in order.
func (l FeeTypeList) Unique() FeeTypeList {
	seen := make(map[string]struct{}, len(l))
	out := make(FeeTypeList, 0, len(l))
	for _, name := range l {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (l FeeTypeList) String() string {
	return strings.Join(l, ",")
}

func (l FeeTypeList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *FeeTypeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = FeeTypeList(items).Unique()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseFeeTypeList(s)
	return nil
}
