package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestRupiah(t *testing.T) {
	cases := map[int64]string{
		0:             "Rp 0",
		999:           "Rp 999",
		1000:          "Rp 1.000",
		1500000:       "Rp 1.500.000",
		5000000:       "Rp 5.000.000",
		1234567890123: "Rp 1.234.567.890.123",
	}
	for in, want := range cases {
		assert.Equal(t, want, Rupiah(in), "amount %d", in)
	}
}

func TestFormat_OtherLocale(t *testing.T) {
	assert.Equal(t, "$ 1,500,000", Format(1500000, language.English, "$"))
}
