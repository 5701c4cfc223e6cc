package domain

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldClear
	fieldSet
)

// Field is a tri-state optional value used in sparse patches: unset (leave
// the stored value alone), clear (reset the stored value) or set.
// The zero value is unset.
type Field[T comparable] struct {
	state fieldState
	value T
}

// Set returns a field holding v.
func Set[T comparable](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a field that resets the stored column.
func Clear[T comparable]() Field[T] {
	return Field[T]{state: fieldClear}
}

func (f Field[T]) IsSet() bool   { return f.state == fieldSet }
func (f Field[T]) IsClear() bool { return f.state == fieldClear }
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// Get returns the value and true when the field is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldSet
}

// CustomerPatch is a field-sparse update of a stored customer. Only set or
// cleared fields are written; the ID is never part of a patch.
type CustomerPatch struct {
	Name         Field[string]
	Email        Field[string]
	Age          Field[int]
	Gender       Field[string]
	PasswordHash Field[string]
}

// IsEmpty reports whether the patch would write nothing.
func (p CustomerPatch) IsEmpty() bool {
	return p.Name.IsUnset() &&
		p.Email.IsUnset() &&
		p.Age.IsUnset() &&
		p.Gender.IsUnset() &&
		p.PasswordHash.IsUnset()
}

// Fields lists the column names the patch touches, in column order.
func (p CustomerPatch) Fields() []string {
	var out []string
	if !p.Name.IsUnset() {
		out = append(out, "name")
	}
	if !p.Email.IsUnset() {
		out = append(out, "email")
	}
	if !p.Age.IsUnset() {
		out = append(out, "age")
	}
	if !p.Gender.IsUnset() {
		out = append(out, "gender")
	}
	if !p.PasswordHash.IsUnset() {
		out = append(out, "password")
	}
	return out
}

// Validate rejects clearing a non-nullable column and negative ages.
// Only the credential hash may be cleared.
func (p CustomerPatch) Validate() error {
	switch {
	case p.Name.IsClear():
		return Validationf("name cannot be cleared")
	case p.Email.IsClear():
		return Validationf("email cannot be cleared")
	case p.Age.IsClear():
		return Validationf("age cannot be cleared")
	case p.Gender.IsClear():
		return Validationf("gender cannot be cleared")
	}
	if age, ok := p.Age.Get(); ok && age < 0 {
		return ErrNegativeAge
	}
	return nil
}
