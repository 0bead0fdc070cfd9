// Package model holds the wire types shared by the API client and the view.
package model

import (
	"encoding/json"
	"fmt"
)

// ID is a server-assigned identifier. The remote service is free to hand out
// JSON numbers or JSON strings, so we keep it opaque, remember which form
// arrived, and emit that same form on the way back out. The zero value marks
// a record pending creation.
type ID struct {
	val    string
	quoted bool // arrived as (or built from) a JSON string
}

// NewID builds an identifier from external input, e.g. a CLI argument.
// It always carries the string form, which is valid JSON for any value.
func NewID(s string) ID { return ID{val: s, quoted: true} }

func (id ID) String() string { return id.val }

// IsZero reports whether the record has no server-assigned identifier yet.
func (id ID) IsZero() bool { return id.val == "" }

// Equal compares identifiers by value, ignoring which wire form they
// arrived in.
func (id ID) Equal(other ID) bool { return id.val == other.val }

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID{val: s, quoted: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID{val: n.String()}
		return nil
	}
	return fmt.Errorf("id: cannot decode %s", string(b))
}

func (id ID) MarshalJSON() ([]byte, error) {
	// Unquoted values came off the wire as JSON numbers, so the raw token
	// goes back out verbatim.
	if !id.quoted && json.Valid([]byte(id.val)) {
		return []byte(id.val), nil
	}
	return json.Marshal(id.val)
}

// Todo is the domain model for a todo entry.
type Todo struct {
	ID        ID     `json:"id,omitzero"`
	UserID    ID     `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// User owns zero or more todos. Read-only on this side.
type User struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
