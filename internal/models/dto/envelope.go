package dto

import (
	"bytes"
	"encoding/json"
)

// Envelope is the backend's common reply wrapper.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Page is a list reply with paging counters.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// RefID is a document reference that the backend sends either as a bare id
// or as a populated object carrying an _id.
type RefID string

func (r *RefID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RefID(s)
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = RefID(obj.ID)
		return nil
	}
	// numbers, booleans: not a usable reference
	*r = ""
	return nil
}
