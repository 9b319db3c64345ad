package validation

import (
	"encoding/json"
)

// mismatch is a JSON value of the wrong type for a string field.
type mismatch struct {
	field string
	value any
}

// decodeObject reads the named string fields of a JSON object. A value of
// another type does not fail the decode; it comes back as a mismatch so the
// gate can report it next to every other rule. Null and absent fields are left
// out of values and unknown keys are ignored.
func decodeObject(data []byte, names ...string) (map[string]*string, []mismatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	values := make(map[string]*string, len(names))
	var bad []mismatch
	for _, name := range names {
		msg, ok := raw[name]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, nil, err
		}
		switch x := v.(type) {
		case nil:
		case string:
			values[name] = &x
		default:
			bad = append(bad, mismatch{field: name, value: x})
		}
	}
	return values, bad, nil
}

func (in *ProjectInput) UnmarshalJSON(data []byte) error {
	values, bad, err := decodeObject(data, "title", "description", "status", "priority", "dueDate")
	if err != nil {
		return err
	}
	*in = ProjectInput{
		Title:       values["title"],
		Description: values["description"],
		Status:      values["status"],
		Priority:    values["priority"],
		DueDate:     values["dueDate"],
		mismatched:  bad,
	}
	return nil
}

func (in *LoginInput) UnmarshalJSON(data []byte) error {
	values, bad, err := decodeObject(data, "username", "password", "role")
	if err != nil {
		return err
	}
	*in = LoginInput{
		Username:   deref(values["username"]),
		Password:   deref(values["password"]),
		Role:       deref(values["role"]),
		mismatched: bad,
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
