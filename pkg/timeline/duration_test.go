package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "four weeks", input: "4 weeks", want: 1},
		{name: "ten weeks rounds up", input: "10 weeks", want: 3},
		{name: "one week", input: "1 week", want: 1},
		{name: "weeks without count defaults to two", input: "a few weeks", want: 1},
		{name: "two months", input: "2 months", want: 2},
		{name: "one month", input: "1 month", want: 1},
		{name: "month without count", input: "about a month", want: 1},
		{name: "empty string", input: "", want: 1},
		{name: "no recognized unit", input: "soon", want: 1},
		{name: "mixed case", input: "6 Weeks", want: 2},
		{name: "zero months clamps", input: "0 months", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.input))
		})
	}
}

func TestParseDurationAlwaysPositive(t *testing.T) {
	inputs := []string{"", "0 weeks", "-3 months", "garbage", "weeks", "month"}

	for _, input := range inputs {
		assert.GreaterOrEqual(t, ParseDuration(input), 1, "input %q", input)
	}
}
