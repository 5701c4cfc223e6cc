package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestField_ZeroValueIsUnset(t *testing.T) {
	var f Field[string]
	if !f.IsUnset() || f.IsSet() || f.IsClear() {
		t.Fatalf("zero field must be unset, got %+v", f)
	}
	if _, ok := f.Get(); ok {
		t.Fatal("unset field must not report a value")
	}
}

func TestField_SetAndClear(t *testing.T) {
	s := Set(42)
	if v, ok := s.Get(); !ok || v != 42 {
		t.Fatalf("expected 42, got %v (ok=%v)", v, ok)
	}

	c := Clear[int]()
	if !c.IsClear() {
		t.Fatal("expected clear state")
	}
	if _, ok := c.Get(); ok {
		t.Fatal("cleared field must not report a value")
	}
}

func TestCustomerPatch_IsEmptyAndFields(t *testing.T) {
	var p CustomerPatch
	if !p.IsEmpty() {
		t.Fatal("zero patch must be empty")
	}
	if len(p.Fields()) != 0 {
		t.Fatalf("expected no fields, got %v", p.Fields())
	}

	p.Name = Set("Mohamed Gad")
	p.Age = Set(30)
	if p.IsEmpty() {
		t.Fatal("patch with set fields must not be empty")
	}
	if got, want := p.Fields(), []string{"name", "age"}; !slices.Equal(got, want) {
		t.Fatalf("fields: got %v, want %v", got, want)
	}
}

func TestCustomerPatch_Validate(t *testing.T) {
	cases := []struct {
		name    string
		patch   CustomerPatch
		wantErr bool
	}{
		{"empty", CustomerPatch{}, false},
		{"set name", CustomerPatch{Name: Set("x")}, false},
		{"clear password", CustomerPatch{PasswordHash: Clear[string]()}, false},
		{"clear name", CustomerPatch{Name: Clear[string]()}, true},
		{"clear email", CustomerPatch{Email: Clear[string]()}, true},
		{"clear age", CustomerPatch{Age: Clear[int]()}, true},
		{"clear gender", CustomerPatch{Gender: Clear[string]()}, true},
		{"negative age", CustomerPatch{Age: Set(-1)}, true},
	}

	for _, tc := range cases {
		err := tc.patch.Validate()
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("%s: expected validation error, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestCustomer_ApplyLeavesUnsetFieldsAlone(t *testing.T) {
	c := Customer{ID: 7, Name: "Islam Gad", Email: "islam@example.com", Age: 26, Gender: "Male", PasswordHash: "h"}

	c.Apply(CustomerPatch{Name: Set("Mohamed Gad"), PasswordHash: Clear[string]()})

	want := Customer{ID: 7, Name: "Mohamed Gad", Email: "islam@example.com", Age: 26, Gender: "Male"}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
}

func TestCustomer_Persisted(t *testing.T) {
	if (Customer{}).Persisted() {
		t.Fatal("zero id must not be persisted")
	}
	if !(Customer{ID: 1}).Persisted() {
		t.Fatal("non-zero id must be persisted")
	}
}
