package assist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags decodes from a JSON array of strings or from a single string. A string
// is kept as typed, since that is what the admin sees in the input field.
type Tags struct {
	List []string
	Text string
}

func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*t = Tags{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &t.Text)
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings: %w", err)
	}
	t.List = list
	return nil
}

// String renders list input comma separated with no spaces and returns text
// input unchanged.
func (t Tags) String() string {
	if t.List == nil {
		return t.Text
	}
	return strings.Join(t.List, ",")
}
