package midi

import (
	"encoding/binary"
	"fmt"
)

// FormatError reports a stream that cannot be decoded.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("midi: %s at offset %d", e.Reason, e.Offset)
}

// cursor reads one bounded region of the stream and carries the running
// status of the track being read.
type cursor struct {
	data   []byte
	pos    int
	end    int
	status byte
}

func (c *cursor) fail(reason string) error {
	return &FormatError{Offset: c.pos, Reason: reason}
}

func (c *cursor) remaining() int {
	return c.end - c.pos
}

func (c *cursor) byte() (byte, error) {
	if c.pos >= c.end {
		return 0, c.fail("unexpected end of chunk")
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, c.fail("unexpected end of chunk")
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	_, err := c.bytes(n)
	return err
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.bytes(2)
	if nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.bytes(4)
	if nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// varlen reads a variable length quantity of at most four bytes.
func (c *cursor) varlen() (uint32, error) {
	var value uint32
	for i := 0; i < 4; i++ {
		b, err := c.byte()
		if nil != err {
			return 0, err
		}
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, c.fail("variable length quantity too long")
}
