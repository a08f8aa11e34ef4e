package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		mine   map[string]string
		theirs map[string]string
		want   int
	}{
		{
			name:   "empty mine scores zero",
			mine:   map[string]string{},
			theirs: map[string]string{"cleanliness": "high"},
			want:   0,
		},
		{
			name:   "identical bags score 100",
			mine:   map[string]string{"cleanliness": "high", "night_owl": "yes", "smoker": "no"},
			theirs: map[string]string{"cleanliness": "high", "night_owl": "yes", "smoker": "no"},
			want:   100,
		},
		{
			name:   "no overlap scores zero",
			mine:   map[string]string{"cleanliness": "high", "smoker": "no"},
			theirs: map[string]string{"cleanliness": "low", "smoker": "yes"},
			want:   0,
		},
		{
			name:   "one of three matches rounds to 33",
			mine:   map[string]string{"a": "1", "b": "2", "c": "3"},
			theirs: map[string]string{"a": "1", "b": "x", "c": "y"},
			want:   33,
		},
		{
			name:   "two of three matches rounds to 67",
			mine:   map[string]string{"a": "1", "b": "2", "c": "3"},
			theirs: map[string]string{"a": "1", "b": "2", "c": "y"},
			want:   67,
		},
		{
			name: "one of eight rounds half up to 13",
			mine: map[string]string{
				"a": "1", "b": "2", "c": "3", "d": "4",
				"e": "5", "f": "6", "g": "7", "h": "8",
			},
			theirs: map[string]string{"a": "1"},
			want:   13,
		},
		{
			name:   "comparison is case-insensitive",
			mine:   map[string]string{"cleanliness": "High", "night_owl": "YES"},
			theirs: map[string]string{"cleanliness": "high", "night_owl": "yes"},
			want:   100,
		},
		{
			name:   "missing keys never match",
			mine:   map[string]string{"cleanliness": "high", "smoker": "no"},
			theirs: map[string]string{"cleanliness": "high"},
			want:   50,
		},
		{
			name:   "empty values on both sides still compare equal",
			mine:   map[string]string{"smoker": ""},
			theirs: map[string]string{"smoker": ""},
			want:   100,
		},
		{
			name:   "extra keys on theirs are ignored",
			mine:   map[string]string{"a": "1"},
			theirs: map[string]string{"a": "1", "b": "2", "c": "3"},
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.mine, tt.theirs))
		})
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	// Every n>0 subset size must land in [0,100] and repeat runs must agree.
	for n := 1; n <= 10; n++ {
		mine := map[string]string{}
		theirs := map[string]string{}
		for i := 0; i < n; i++ {
			k := fmt.Sprintf("k%d", i)
			mine[k] = "v"
			if i%2 == 0 {
				theirs[k] = "v"
			}
		}
		got := Score(mine, theirs)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		assert.Equal(t, got, Score(mine, theirs))
	}
}
