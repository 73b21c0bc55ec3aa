package cliutil

import (
	"reflect"
	"testing"
)

func TestParseWorkers(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: "8", want: 8},
		{in: "auto", want: 0},
		{in: " AUTO ", want: 0},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseWorkers(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseWorkers(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseWorkers(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseWorkers(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a.txt, ,b.json,")
	if want := []string{"a.txt", "b.json"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	if SplitList("") != nil {
		t.Fatalf("SplitList(\"\") should be nil")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(2, 0, 1) != 1 || Clamp(-1, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Fatalf("Clamp mismatch")
	}
}
