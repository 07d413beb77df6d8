package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	got := New(2024, time.January, 32)
	if want := New(2024, time.February, 1); got != want {
		t.Errorf("New(2024, 1, 32) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-01", want: New(2024, time.January, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2024-03-05T23:59:59Z", want: New(2024, time.March, 5)},
		{in: "2024-03-05T08:00:00", want: New(2024, time.March, 5)},
		{in: "05/03/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 1, 1), New(2024, 1, 2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is inconsistent: %d %d %d", a.Compare(b), b.Compare(a), a.Compare(a))
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After disagree with Compare")
	}
}

func TestJSON(t *testing.T) {
	var v struct {
		On  Date `json:"on"`
		Due Date `json:"due"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2024-02-29","due":null}`), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.On != New(2024, time.February, 29) {
		t.Errorf("On = %v, want 2024-02-29", v.On)
	}
	if !v.Due.IsZero() {
		t.Errorf("Due = %v, want zero", v.Due)
	}
	b, err := json.Marshal(v.On)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2024-02-29"` {
		t.Errorf("Marshal() = %s, want %q", b, `"2024-02-29"`)
	}
}
