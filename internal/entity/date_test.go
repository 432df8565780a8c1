package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("1892-01-03")
		require.NoError(t, err)
		assert.Equal(t, "1892-01-03", d.String())
	})

	t.Run("empty", func(t *testing.T) {
		d, err := ParseDate("  ")
		assert.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseDate("03/01/1892")
		assert.Error(t, err)
	})
}

func TestDate_JSON(t *testing.T) {
	var b Book
	err := json.Unmarshal([]byte(`{"title":"Dune","isbn":"9780441013593","publicationDate":"1965-08-01"}`), &b)
	require.NoError(t, err)
	assert.Equal(t, MustDate("1965-08-01"), b.PublicationDate)

	out, err := json.Marshal(Author{Name: "Frank Herbert"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"birthDate":null`)
	assert.NotContains(t, string(out), `"id"`)
}

func TestDate_UnmarshalTimestampString(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2020-05-17T10:00:00"`), &d))
	assert.Equal(t, "2020-05-17", d.String())
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"local date-time", `"2024-03-01T12:30:45.123"`, time.Date(2024, 3, 1, 12, 30, 45, 123000000, time.UTC)},
		{"no fraction", `"2024-03-01T12:30:45"`, time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)},
		{"rfc3339", `"2024-03-01T12:30:45Z"`, time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time))
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestAuthor_Age(t *testing.T) {
	a := Author{BirthDate: MustDate("1920-01-02")}
	assert.Equal(t, 99, a.Age(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100, a.Age(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, Author{}.Age(time.Now()))
}
