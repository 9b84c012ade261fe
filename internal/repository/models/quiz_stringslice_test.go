package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice_NilIsWrittenAsEmptyArray(t *testing.T) {
	var options StringSlice
	v, err := options.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringSlice{`placa "PARE"`, "Não", "-"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["placa \"PARE\"","Não","-"]`, v)
}

// Postgres returns text as string, sqlite3 and go-ora may hand back []byte.
func TestStringSlice_ScanDriverForms(t *testing.T) {
	options := StringSlice{"40 km/h", "60 km/h", "80 km/h", "-"}
	for _, raw := range []interface{}{
		`["40 km/h","60 km/h","80 km/h","-"]`,
		[]byte(`["40 km/h","60 km/h","80 km/h","-"]`),
	} {
		var s StringSlice
		require.NoError(t, s.Scan(raw))
		assert.Equal(t, options, s)
	}

	for _, empty := range []interface{}{nil, "", []byte("null")} {
		s := StringSlice{"stale"}
		require.NoError(t, s.Scan(empty))
		assert.Equal(t, StringSlice{}, s)
	}
}

func TestStringSlice_ScanRejectsNonArrays(t *testing.T) {
	var s StringSlice
	assert.ErrorContains(t, s.Scan("a|||b"), "options column")
	assert.ErrorContains(t, s.Scan(42), "unsupported type int")
}
