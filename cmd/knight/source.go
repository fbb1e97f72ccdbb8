package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// encodings maps the names accepted for the encoding setting to decoders.
// A nil encoding means the input is already UTF-8 and passes through.
var encodings = map[string]encoding.Encoding{
	"utf8":     nil,
	"ascii":    charmap.Windows1252,
	"latin1":   charmap.ISO8859_1,
	"cp1252":   charmap.Windows1252,
	"utf16":    unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf32":    utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf32le":  utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf32be":  utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"koi8r":    charmap.KOI8R,
	"macroman": charmap.Macintosh,
}

// lookupEncoding finds an encoding by name, ignoring case and dashes.
func lookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	if key == "" {
		return nil, nil
	}
	e, ok := encodings[key]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return e, nil
}

// decode returns a reader producing UTF-8 from r in the named encoding.
func decode(r io.Reader, name string) (io.Reader, error) {
	e, err := lookupEncoding(name)
	if err != nil || e == nil {
		return r, err
	}
	return e.NewDecoder().Reader(r), nil
}
