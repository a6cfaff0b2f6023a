package bson

// Iterator walks a document's raw bytes, decoding one (key, value) pair
// per step (spec §4.5). It is single-pass and non-restartable; call
// Document.Iterator again to re-scan from the start.
//
// An Iterator borrows the byte slice it was built from; it must not be
// used across mutations of the Document it came from (spec §5 "Buffers").
type Iterator struct {
	c    *cursor
	done bool
}

// NewIterator positions an Iterator past the leading 4-byte length of a
// document's raw bytes, ready to decode its first element.
func NewIterator(data []byte) (*Iterator, error) {
	c := newCursor(data)
	if _, err := c.readI32(); err != nil {
		return nil, err
	}
	return &Iterator{c: c}, nil
}

// Iterator returns a fresh Iterator over this document's current byte
// form. Iterating never observes a half-applied mutation: Bytes() is
// called first, so the iterator always walks a complete, frozen
// encoding.
func (d *Document) Iterator() (*Iterator, error) {
	b, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	return NewIterator(b)
}

// Next decodes the next (key, value) pair. ok is false once the
// document's terminating 0x00 has been reached; err is non-nil if the
// bytes are malformed. Once Next returns ok=false or a non-nil err,
// every subsequent call returns ok=false, nil, nil.
func (it *Iterator) Next() (key string, val Value, ok bool, err error) {
	if it.done {
		return "", nil, false, nil
	}
	tag, err := it.c.readByte()
	if err != nil {
		it.done = true
		return "", nil, false, err
	}
	if tag == 0x00 {
		it.done = true
		return "", nil, false, nil
	}
	key, err = it.c.readCString()
	if err != nil {
		it.done = true
		return "", nil, false, err
	}
	val, err = decodeValueBody(it.c, Type(tag))
	if err != nil {
		it.done = true
		return "", nil, false, err
	}
	return key, val, true, nil
}
