package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	l, err := newLogger(&b, "info", "%Y")
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("shown", "k", 1)
	s := b.String()
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "msg=shown")
	assert.Contains(t, s, "k=1")
	assert.Regexp(t, `^time=\d{4} `, s)

	b.Reset()
	l, err = newLogger(&b, "DEBUG", "")
	require.NoError(t, err)
	l.Debug("untimed")
	assert.NotContains(t, b.String(), "time=")
	assert.Contains(t, b.String(), "msg=untimed")

	_, err = newLogger(&b, "chatty", "")
	assert.Error(t, err)
}
