package parameter

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("parameter not found")

// Parameter is a typed key/value system setting.
type Parameter struct {
	ID          uuid.UUID
	Category    string
	Key         string
	Value       string
	Type        string // string | number | boolean | json
	Description string
	UpdatedAt   *time.Time
}

// TypedValue decodes Value according to Type. Unparseable values fall back
// to the raw string, matching how callers have always consumed them.
func (p *Parameter) TypedValue() any {
	switch p.Type {
	case "number":
		if f, err := strconv.ParseFloat(p.Value, 64); err == nil {
			return f
		}
	case "boolean":
		return p.Value == "true" || p.Value == "1"
	case "json":
		var v any
		if err := json.Unmarshal([]byte(p.Value), &v); err == nil {
			return v
		}
	}

	return p.Value
}
