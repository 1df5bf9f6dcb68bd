package business_flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderedSubmission(t *testing.T) {
	t.Run("PreservesFieldOrder", func(t *testing.T) {
		body := []byte(`{"api_key":"zf_abc","zeta":"1","alpha":"2","mid":"3"}`)

		apiKey, fields, err := ParseOrderedSubmission(body)
		require.NoError(t, err)

		assert.Equal(t, "zf_abc", apiKey)
		require.Len(t, fields, 3)
		assert.Equal(t, FormField{Key: "zeta", Value: "1"}, fields[0])
		assert.Equal(t, FormField{Key: "alpha", Value: "2"}, fields[1])
		assert.Equal(t, FormField{Key: "mid", Value: "3"}, fields[2])
	})

	t.Run("APIKeyAnywhereInBody", func(t *testing.T) {
		body := []byte(`{"name":"Jane","api_key":"zf_key","message":"hi"}`)

		apiKey, fields, err := ParseOrderedSubmission(body)
		require.NoError(t, err)

		assert.Equal(t, "zf_key", apiKey)
		require.Len(t, fields, 2)
		assert.Equal(t, "name", fields[0].Key)
		assert.Equal(t, "message", fields[1].Key)
	})

	t.Run("ScalarCoercion", func(t *testing.T) {
		body := []byte(`{"api_key":"zf_k","count":42,"ratio":1.5,"agree":true,"note":null}`)

		_, fields, err := ParseOrderedSubmission(body)
		require.NoError(t, err)

		require.Len(t, fields, 4)
		assert.Equal(t, "42", fields[0].Value)
		assert.Equal(t, "1.5", fields[1].Value)
		assert.Equal(t, "true", fields[2].Value)
		assert.Equal(t, "", fields[3].Value)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		body := []byte(`{"name":"Jane"}`)

		apiKey, fields, err := ParseOrderedSubmission(body)
		require.NoError(t, err)

		assert.Empty(t, apiKey)
		require.Len(t, fields, 1)
	})

	t.Run("RejectsNonObjectBody", func(t *testing.T) {
		_, _, err := ParseOrderedSubmission([]byte(`["nope"]`))
		assert.True(t, IsInvalidSubmission(err))

		_, _, err = ParseOrderedSubmission([]byte(`not json`))
		assert.True(t, IsInvalidSubmission(err))
	})
}
