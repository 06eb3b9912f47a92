package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Category is the kind of subject in the curriculum.
type Category string

const (
	CategoryFoundation Category = "Cơ sở"
	CategoryMajor      Category = "Chuyên ngành"
	CategoryGeneral    Category = "Đại cương"
)

// Categories lists every accepted category.
var Categories = []Category{CategoryFoundation, CategoryMajor, CategoryGeneral}

// IsCategory reports whether v is exactly one of Categories.
func IsCategory(v string) bool {
	for _, c := range Categories {
		if string(c) == v {
			return true
		}
	}
	return false
}

// Subject is one catalog entry as stored in the data file.
type Subject struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Credit   float64  `json:"credit"`
	Category Category `json:"category"`
	Teacher  string   `json:"teacher"`
}

// SubjectInput is the client payload for creating or replacing a subject.
// Fields decode leniently so a wrongly typed value becomes a validation
// failure instead of a decode error.
type SubjectInput struct {
	Name     LooseString `json:"name" validate:"subject_text"`
	Credit   LooseNumber `json:"credit" validate:"subject_credit"`
	Category LooseString `json:"category" validate:"subject_category"`
	Teacher  LooseString `json:"teacher" validate:"subject_text"`
}

// ToSubject builds the stored form of a validated input.
func (in SubjectInput) ToSubject(id int) Subject {
	return Subject{
		ID:       id,
		Name:     strings.TrimSpace(string(in.Name)),
		Credit:   float64(in.Credit),
		Category: Category(in.Category),
		Teacher:  strings.TrimSpace(string(in.Teacher)),
	}
}

// LooseString decodes any non-string JSON value as the empty string.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = LooseString(v)
	return nil
}

// LooseNumber accepts a JSON number or a numeric string. Null and the empty
// string decode as 0, true and false as 1 and 0; anything else decodes as NaN.
type LooseNumber float64

func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*n = 0
		if b {
			*n = 1
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = LooseNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*n = LooseNumber(f)
			return nil
		}
	}

	*n = LooseNumber(math.NaN())
	return nil
}
