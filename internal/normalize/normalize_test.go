package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigla(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"abc", "ABC"},
		{"  rjo-123 ", "RJO123"},
		{"São Conrado", "SAOCONRADO"},
		{"TORRE_ÁGUA/02", "TORREAGUA02"},
		{"ção", "CAO"},
		{"a b c", "ABC"},
		{"ABC", "ABC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Sigla(tc.in), "input %q", tc.in)
	}
}

func TestSiglaIdempotent(t *testing.T) {
	inputs := []string{"", "rjo-123", "São Conrado", "ÁÉÎÕÜ", "  x y z  ", "çáõ01"}
	for _, in := range inputs {
		once := Sigla(in)
		assert.Equal(t, once, Sigla(once), "input %q", in)
	}
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Sao Goncalo", StripAccents("São Gonçalo"))
	assert.Equal(t, "aeiou AEIOU c", StripAccents("áéíóú ÀÊÌÕÛ ç"))
	assert.Equal(t, "plain", StripAccents("plain"))
	assert.Equal(t, "", StripAccents(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "av-brasil-1500-rio", Slug("Av. Brasil, 1500 — Rio", "-"))
	assert.Equal(t, "sao-paulo", Slug("  São Paulo!  ", "-"))
	assert.Equal(t, "", Slug("!!!", "-"))
	assert.Equal(t, Slug("Av. Brasil, 1500", "-"), Slug("av brasil 1500", "-"))
}
