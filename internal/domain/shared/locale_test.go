package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocale(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
	}{
		{"fr", LocaleFR},
		{"FR", LocaleFR},
		{"fr-FR", LocaleFR},
		{"en-US", LocaleEN},
		{"de", LocaleDE},
		{"ru", LocaleRU},
		{"pl", LocalePL},
	}
	for _, tc := range cases {
		got, err := ParseLocale(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseLocaleRejectsUnsupported(t *testing.T) {
	_, err := ParseLocale("zh")
	require.Error(t, err)
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_LOCALE", derr.Code)

	_, err = ParseLocale("not a tag!!")
	assert.Error(t, err)
}

func TestLocaleValid(t *testing.T) {
	for _, l := range AllLocales() {
		assert.True(t, l.Valid(), string(l))
	}
	assert.False(t, Locale("XX").Valid())
	assert.False(t, Locale("fr").Valid())
}
