package firms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Encode writes d as compact JSON with states, cities, and firms in their
// stored order. HTML characters are left unescaped and no trailing newline is
// written.
func (d *Directory) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := newValueEncoder(&buf)

	buf.WriteByte('{')
	for i, st := range d.States {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.value(st.Name); err != nil {
			return err
		}
		buf.WriteString(`:{"cities":{`)
		for j, ct := range st.Cities {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := enc.value(ct.Name); err != nil {
				return err
			}
			buf.WriteString(`:{"coords":`)
			if err := enc.value(ct.Coords); err != nil {
				return err
			}
			buf.WriteString(`,"firms":`)
			firms := ct.Firms
			if firms == nil {
				firms = []Firm{}
			}
			if err := enc.value(firms); err != nil {
				return err
			}
			buf.WriteByte('}')
		}
		buf.WriteString("}}")
	}
	buf.WriteByte('}')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return eris.Wrap(err, "firms: write json")
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Note that json.Marshal re-escapes
// HTML characters in the result; use Encode for the literal form.
func (d *Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes d to path. The document is written to a temporary file in
// the same directory and renamed into place. The file is created with mode
// 0666 before umask, as os.WriteFile does.
func WriteJSON(path string, d *Directory) error {
	tmpName := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%d.tmp", filepath.Base(path), os.Getpid()))
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return eris.Wrap(err, "firms: create temp output")
	}
	defer os.Remove(tmpName) //nolint:errcheck

	if err := d.Encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "firms: close temp output")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrap(err, "firms: write output")
	}
	return nil
}

// valueEncoder appends single JSON values to a buffer without HTML escaping
// or the newline json.Encoder adds.
type valueEncoder struct {
	buf     *bytes.Buffer
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newValueEncoder(buf *bytes.Buffer) *valueEncoder {
	ve := &valueEncoder{buf: buf}
	ve.enc = json.NewEncoder(&ve.scratch)
	ve.enc.SetEscapeHTML(false)
	return ve
}

func (ve *valueEncoder) value(v any) error {
	ve.scratch.Reset()
	if err := ve.enc.Encode(v); err != nil {
		return eris.Wrap(err, "firms: encode value")
	}
	ve.buf.Write(bytes.TrimSuffix(ve.scratch.Bytes(), []byte("\n")))
	return nil
}
