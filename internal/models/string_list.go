package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList decodes cuisine fields that older documents stored as a
// bare string instead of an array.
type StringList []string

// UnmarshalBSONValue accepts string, array and null values. A blank or
// missing value decodes to nil so the two empty shapes compare equal.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		if len(values) == 0 {
			*s = nil
			return nil
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			*s = nil
			return nil
		}
		*s = []string{trimmed}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// MarshalBSONValue writes an array regardless of how the value was
// read, so rewritten documents converge on one shape.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}
