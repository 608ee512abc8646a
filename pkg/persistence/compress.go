package persistence

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
)

// magicHeader identifies an LZMA-wrapped project document (§4.7).
var magicHeader = []byte("FDAW")

// WriteCompressed wraps data in an LZMA stream behind the FDAW magic
// header. Used when the caller opts into compressed project files.
func WriteCompressed(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magicHeader)

	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	if err := w.Close(); err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	return buf.Bytes(), nil
}

// ReadDocument auto-detects whether raw is a plain JSON document or an
// FDAW-magic-prefixed LZMA stream, and returns the decompressed JSON bytes
// either way.
func ReadDocument(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, magicHeader) {
		return raw, nil
	}

	r, err := lzma.NewReader(bytes.NewReader(raw[len(magicHeader):]))
	if err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	return data, nil
}
