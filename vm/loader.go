package vm

import (
	"fmt"
	"io"
)

// LoadImage reads a program image and places its payload into memory.
// The first word is the origin address; every following word lands at
// consecutive addresses starting there. Words are big endian, matching
// the LC-3 object format regardless of host byte order. Loading stops
// when the stream ends; a trailing odd byte is ignored. The origin is
// returned so the caller can point the PC at it.
func (m *Memory) LoadImage(r io.Reader) (Word, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading image: %w", err)
	}
	if len(buf) < 2 {
		return 0, ErrImageTooShort
	}

	origin := Word(buf[0])<<8 | Word(buf[1])
	addr := origin
	for i := 2; i+1 < len(buf); i += 2 {
		m.Poke(addr, Word(buf[i])<<8|Word(buf[i+1]))
		addr++
	}
	return origin, nil
}
