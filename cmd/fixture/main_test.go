package main

import (
	"slices"
	"testing"
)

func TestSplitStates(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "admin", want: []string{"admin"}},
		{in: "admin, active ,,suspended", want: []string{"admin", "active", "suspended"}},
		{in: " , ", want: nil},
	}

	for _, tt := range tests {
		if got := splitStates(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitStates(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
