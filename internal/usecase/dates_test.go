package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	inputs := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02T17:04:05+02:00",
		"Mon, 02 Jan 2006 15:04:05 GMT",
		"Mon, 02 Jan 2006 15:04:05 +0000",
		"Mon, 2 Jan 2006 15:04:05 -0000",
		"  2006-01-02 15:04:05  ",
	}
	for _, in := range inputs {
		got := ParseDate(in)
		require.NotNil(t, got, in)
		assert.True(t, got.Equal(want), "%s parsed as %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("   "))
	assert.Nil(t, ParseDate("not a date"))
}

func TestResolvePublished(t *testing.T) {
	iso := ResolvePublished("2024-01-01T00:00:00Z", "Tue, 03 Jan 2006 12:00:00 GMT")
	require.NotNil(t, iso)
	assert.Equal(t, 2024, iso.Year())

	fallback := ResolvePublished("", "Tue, 03 Jan 2006 12:00:00 GMT")
	require.NotNil(t, fallback)
	assert.Equal(t, 2006, fallback.Year())

	assert.Nil(t, ResolvePublished("", ""))
	assert.Nil(t, ResolvePublished("bad", "worse"))
}
