package strings

import "testing"

func TestContains(t *testing.T) {
	list := []string{"foo", "bar"}
	tests := []struct {
		name   string
		needle string
		want   bool
	}{
		{"empty", "", false},
		{"found", "bar", true},
		{"not found", "baz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(list, tt.needle); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		list    []string
		want    string
		wantDup bool
	}{
		{"nil", nil, "", false},
		{"unique", []string{"foo", "bar"}, "", false},
		{"duplicate", []string{"foo", "bar", "foo"}, "foo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dup := Duplicate(tt.list)
			if got != tt.want || dup != tt.wantDup {
				t.Errorf("Duplicate() = %q, %v, want %q, %v", got, dup, tt.want, tt.wantDup)
			}
		})
	}
}
