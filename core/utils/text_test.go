package utils

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Han's Speeder", "han's speeder"},
		{"Han’s Speeder", "han's speeder"},
		{"  Obi-Wan   Kenobi ", "obi-wan kenobi"},
		{"Obi–Wan", "obi-wan"},
		{"ＬＵＫＥ", "luke"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldName(tt.in))
		})
	}
}

func TestFuzzyName(t *testing.T) {
	assert.Equal(t, "hansspeeder", FuzzyName("Han's Speeder"))
	assert.Equal(t, FuzzyName("Hans"), FuzzyName("Han’s"))
	assert.Equal(t, "r2d2", FuzzyName("R2-D2"))
	assert.Equal(t, "", FuzzyName("'-- "))
}

func TestParseCardNumber(t *testing.T) {
	n, ok := ParseCardNumber(" 10 ")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = ParseCardNumber("P1")
	assert.False(t, ok)
	_, ok = ParseCardNumber("")
	assert.False(t, ok)
	_, ok = ParseCardNumber("-3")
	assert.False(t, ok)
}

func TestCompareCardNumbers(t *testing.T) {
	numbers := []string{"2", "10", "P1", "1", "AI", "010"}
	slices.SortStableFunc(numbers, CompareCardNumbers)

	assert.Equal(t, []string{"1", "2", "010", "10", "AI", "P1"}, numbers)
}

func TestCompareAppearances(t *testing.T) {
	c, u := "C1", "U2"

	assert.Negative(t, CompareAppearances("1", &u, "2", &c))
	assert.Negative(t, CompareAppearances("1", &c, "1", &u))
	assert.Negative(t, CompareAppearances("1", &u, "1", nil))
	assert.Positive(t, CompareAppearances("1", nil, "1", &c))
	assert.Zero(t, CompareAppearances("1", nil, "1", nil))
}
