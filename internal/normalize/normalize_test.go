package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAcceptsEveryLayout(t *testing.T) {
	want := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"03/01/2025",
		"03-01-2025",
		"2025/01/03",
		"2025-01-03",
		"03/01/2025 14:30:00",
		"03-01-2025 14:30:00",
		"2025/01/03 08:15:00",
		"2025-01-03 23:59:59",
		"  03/01/2025  ",
	}
	for _, in := range inputs {
		got, ok := ParseDate(in)
		require.True(t, ok, "ParseDate(%q) failed", in)
		assert.Equal(t, want, got, "ParseDate(%q)", in)
	}
}

func TestParseDatePrefersDayFirst(t *testing.T) {
	got, ok := ParseDate("05/06/2025")
	require.True(t, ok)
	assert.Equal(t, time.June, got.Month())
	assert.Equal(t, 5, got.Day())
}

func TestParseDateFallback(t *testing.T) {
	got, ok := ParseDate("3/1/2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate("2025-01-03T10:20:30Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "32/13/2025", "not a date at all"} {
		got, ok := ParseDate(in)
		assert.False(t, ok, "ParseDate(%q) should fail", in)
		assert.True(t, got.IsZero())
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"10", "10", true},
		{"0,25", "0.25", true},
		{"0.25", "0.25", true},
		{" 12,5 ", "12.5", true},
		{"-3", "-3", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"NaN", "", false},
		{"1.234,5", "", false},
	}
	for _, c := range cases {
		got := ParseNumber(c.in)
		assert.Equal(t, c.valid, got.Valid, "ParseNumber(%q).Valid", c.in)
		if c.valid {
			assert.Equal(t, c.want, got.Decimal.String(), "ParseNumber(%q)", c.in)
		}
	}
}

func TestParseNumberKeepsZeroDistinctFromNull(t *testing.T) {
	zero := ParseNumber("0")
	null := ParseNumber("")
	assert.True(t, zero.Valid)
	assert.True(t, zero.Decimal.IsZero())
	assert.False(t, null.Valid)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Nucleo", Header(" Núcleo "))
	assert.Equal(t, "Regional", Header("Regional"))
	assert.Equal(t, "Data Inicio", Header("Data   Início"))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "Núcleo", string(DecodeText([]byte("Núcleo"))))
	assert.Equal(t, "abc", string(DecodeText([]byte{0xEF, 0xBB, 0xBF, 'a', 'b', 'c'})))
	// "Núcleo" in Windows-1252.
	latin := []byte{'N', 0xFA, 'c', 'l', 'e', 'o'}
	assert.Equal(t, "Núcleo", string(DecodeText(latin)))
}
