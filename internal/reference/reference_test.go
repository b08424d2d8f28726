package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name string
		last string
		want string
	}{
		{"no prior reference", "", "C19-0001"},
		{"increments", "C19-0042", "C19-0043"},
		{"rolls past padding width", "C19-9999", "C19-10000"},
		{"keeps counting above four digits", "C19-10000", "C19-10001"},
		{"garbage falls back", "garbage", "C19-0001"},
		{"wrong prefix falls back", "X19-0042", "C19-0001"},
		{"short suffix falls back", "C19-42", "C19-0001"},
		{"surrounding whitespace tolerated", "  C19-0007  ", "C19-0008"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Next(tc.last))
		})
	}
}
