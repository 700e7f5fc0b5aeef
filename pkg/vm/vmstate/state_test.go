package vmstate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFromString(t *testing.T) {
	var (
		s   State
		err error
	)

	s, err = FromString("HALT")
	assert.NoError(t, err)
	assert.Equal(t, Halt, s)

	s, err = FromString("BREAK")
	assert.NoError(t, err)
	assert.Equal(t, Break, s)

	s, err = FromString("FAULT")
	assert.NoError(t, err)
	assert.Equal(t, Fault, s)

	s, err = FromString("NONE")
	assert.NoError(t, err)
	assert.Equal(t, None, s)

	s, err = FromString("HALT, BREAK")
	assert.NoError(t, err)
	assert.Equal(t, Halt|Break, s)

	_, err = FromString("HALT, KEK")
	assert.Error(t, err)
}

func TestStateJSON(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`"FAULT"`), &s))
	require.Equal(t, Fault, s)

	data, err := json.Marshal(Halt | Break)
	require.NoError(t, err)
	require.Equal(t, `"HALT, BREAK"`, string(data))

	require.Error(t, json.Unmarshal([]byte(`1`), &s))
}
