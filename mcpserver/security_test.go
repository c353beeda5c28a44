package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRedactArgs(t *testing.T) {
	v := NewInputValidator(16)

	args, err := v.ValidateRedactArgs(map[string]interface{}{ArgText: "hi", ArgClientID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, RedactArgs{Text: "hi", ClientID: "c1"}, args)

	args, err = v.ValidateRedactArgs(map[string]interface{}{ArgText: ""})
	require.NoError(t, err)
	assert.Equal(t, RedactArgs{}, args)

	_, err = v.ValidateRedactArgs(map[string]interface{}{})
	assert.True(t, errors.Is(err, errMissingText))

	_, err = v.ValidateRedactArgs(map[string]interface{}{ArgText: 7.0})
	assert.True(t, errors.Is(err, errTextType))
	assert.Contains(t, err.Error(), "float64")

	_, err = v.ValidateRedactArgs(map[string]interface{}{ArgText: "ok", ArgClientID: 3})
	assert.True(t, errors.Is(err, errClientType))

	_, err = v.ValidateRedactArgs(map[string]interface{}{ArgText: "seventeen bytes!!"})
	assert.Error(t, err)
}

func TestValidateRedactArgs_NoLimit(t *testing.T) {
	v := NewInputValidator(0)
	_, err := v.ValidateRedactArgs(map[string]interface{}{ArgText: string(make([]byte, 1<<16))})
	assert.NoError(t, err)
}
