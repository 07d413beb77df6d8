package ledger

import (
	"errors"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("field order is kept", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("z", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"z":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // assess that a zero value is actually added.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("ch", make(chan int))
		w.Append("a", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error for an unmarshalable value")
		}
	})
}

func TestDraft_MarshalJSON(t *testing.T) {
	d := NewDraft(NewDate(2024, 1, 1), Income, A(100.5), "Salary")
	got, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"amount":100.5,"type":"INCOME","date":"2024-01-01","description":"Salary"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestDraft_Validate(t *testing.T) {
	testCases := []struct {
		name       string
		draft      Draft
		wantFields []string
	}{
		{name: "empty", draft: Draft{}, wantFields: []string{"amount", "type", "description"}},
		{name: "blank description", draft: NewDraft(Today(), Expense, A(3), "   "), wantFields: []string{"description"}},
		{name: "negative amount", draft: NewDraft(Today(), Expense, A(-3), "Coffee"), wantFields: []string{"amount"}},
		{name: "zero amount", draft: NewDraft(Today(), Expense, A(0), "Coffee"), wantFields: []string{"amount"}},
		{name: "unknown kind", draft: NewDraft(Today(), Kind("TRANSFER"), A(3), "Coffee"), wantFields: []string{"type"}},
		{name: "valid", draft: NewDraft(Today(), Income, A(100), "Salary")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.draft.Validate()
			if tc.wantFields == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != len(tc.wantFields) {
				t.Fatalf("Validate() fields = %v, want %v", verr.Fields, tc.wantFields)
			}
			for i := range tc.wantFields {
				if verr.Fields[i] != tc.wantFields[i] {
					t.Errorf("Validate() fields = %v, want %v", verr.Fields, tc.wantFields)
				}
			}
		})
	}
}

func TestDraft_ValidateDefaultsDate(t *testing.T) {
	d, err := NewDraft(Date{}, Income, A(1), "Gift").Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if d.Date != Today() {
		t.Errorf("Validate() date = %v, want today %v", d.Date, Today())
	}
}
