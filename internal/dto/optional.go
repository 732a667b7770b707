package dto

import "encoding/json"

// Optional is a tri-state patch field: absent, explicit null, or a value.
// The zero value means absent; UnmarshalJSON only runs for present keys,
// which is what distinguishes "not sent" from "sent as null".
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// Set reports whether the field was present at all.
func (o Optional[T]) Set() bool {
	return o.set
}

// IsNull reports whether the field was present as an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.set && o.null
}

// Value returns the field value and whether a non-null value was present.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set && !o.null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.null = true
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
