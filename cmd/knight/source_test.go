package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := map[string]struct {
		enc  string
		in   []byte
		want string
	}{
		"Empty":   {"", []byte("abc"), "abc"},
		"UTF8":    {"UTF-8", []byte("héllo"), "héllo"},
		"Latin1":  {"latin1", []byte("caf\xe9"), "café"},
		"ASCII":   {"ascii", []byte("plain"), "plain"},
		"UTF16LE": {"utf-16le", []byte{'h', 0, 'i', 0}, "hi"},
		"UTF16BE": {"utf16be", []byte{0, 'h', 0, 'i'}, "hi"},
		"UTF16":   {"utf16", []byte{0xfe, 0xff, 0, 'o', 0, 'k'}, "ok"},
		"UTF32LE": {"utf32le", []byte{'a', 0, 0, 0}, "a"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := decode(bytes.NewReader(c.in), c.enc)
			require.NoError(t, err)
			b, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(b))
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	_, err := decode(strings.NewReader(""), "klingon")
	assert.Error(t, err)
}
