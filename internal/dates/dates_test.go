package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{
			name: "numeric slash",
			text: "15/01/2025",
			want: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "numeric dash",
			text: "31-12-2024",
			want: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "long form",
			text: "15 de enero de 2025",
			want: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "long form without de",
			text: "15 diciembre 2024",
			want: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "iso",
			text: "2024-12-15",
			want: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "embedded in prose",
			text: "Plazo: hasta el 20/01/2025",
			want: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "abbreviated month",
			text: "3 dic 2025",
			want: time.Date(2025, time.December, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "capitalized month",
			text: "Fecha límite: 30 de Noviembre de 2024",
			want: time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Both deadline spellings of the same day must normalize identically.
func TestParseEquivalentForms(t *testing.T) {
	numeric, err := Parse("15/01/2025")
	require.NoError(t, err)
	long, err := Parse("15 de enero de 2025")
	require.NoError(t, err)
	assert.Equal(t, numeric, long)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "sin fecha", "plazo abierto", "99/99/2025", "30 de frutabomba de 2025"} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrUnrecognizedFormat, "input %q", text)
	}
}

func TestParseRejectsImpossibleCalendarDate(t *testing.T) {
	_, err := Parse("31/02/2025")
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestExtractAll(t *testing.T) {
	text := "Publicada el 01/09/2025. Fecha límite: 30 de septiembre de 2025."
	got := ExtractAll(text)
	require.Len(t, got, 2)
	assert.Contains(t, got, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, got, time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC))
}

func TestIsOpen(t *testing.T) {
	now := time.Date(2025, time.June, 10, 13, 45, 0, 0, time.UTC)

	assert.True(t, IsOpen(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), now), "deadline today is still open")
	assert.True(t, IsOpen(time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsOpen(time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), now))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "fecha limite", Fold("Fecha Límite"))
	assert.Equal(t, "sabado", Fold("Sábado"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "05/03/2025", Display(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)))
}
