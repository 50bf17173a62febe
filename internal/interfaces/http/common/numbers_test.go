package common_test

import (
	"testing"

	"github.com/BrianJCal99/project-bunnings/internal/interfaces/http/common"
)

func TestParsePositiveInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", 20, false},
		{"5", 5, true},
		{" 7 ", 7, true},
		{"0", 20, false},
		{"-3", 20, false},
		{"abc", 20, false},
	}
	for _, tc := range cases {
		got, ok := common.ParsePositiveInt(tc.in, 20)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParsePositiveInt(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoundRating(t *testing.T) {
	if common.RoundRating(nil) != nil {
		t.Fatal("nil must stay nil")
	}
	v := 4.666666
	if got := *common.RoundRating(&v); got != 4.67 {
		t.Fatalf("round = %v", got)
	}
}

func TestRoundRating_HalfAwayFromZeroOnDecimalForm(t *testing.T) {
	// 1.005 is stored as 1.00499999..., so scaling the float would round down.
	v := 1.005
	if got := *common.RoundRating(&v); got != 1.01 {
		t.Fatalf("round(1.005) = %v, want 1.01", got)
	}
}
