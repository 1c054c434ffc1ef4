package iovector

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WKB geometry type codes of 2D geometries.
const (
	wkbPoint              = 1
	wkbLineString         = 2
	wkbPolygon            = 3
	wkbMultiPoint         = 4
	wkbMultiLineString    = 5
	wkbMultiPolygon       = 6
	wkbGeometryCollection = 7
)

// EWKB flags in the high bits of the type code.
const (
	ewkbZ    = 0x80000000
	ewkbM    = 0x40000000
	ewkbSRID = 0x20000000
)

var errShortWKB = errors.New("truncated WKB geometry")

// flattenWKB rewrites WKB with Z or M ordinates (ISO 1000/2000/3000
// codes or EWKB flags) as little-endian 2D WKB. Extra ordinates are
// dropped.
func flattenWKB(b []byte) ([]byte, error) {
	f := &wkbFlattener{in: b, out: make([]byte, 0, len(b))}
	if err := f.geometry(); err != nil {
		return nil, err
	}
	return f.out, nil
}

type wkbFlattener struct {
	in  []byte
	pos int
	out []byte
}

// wkbType splits a type code into the 2D type and the number of
// ordinates per point.
func wkbType(t uint32) (base uint32, dims int, srid bool) {
	dims = 2
	if t&(ewkbZ|ewkbM|ewkbSRID) != 0 {
		if t&ewkbZ != 0 {
			dims++
		}
		if t&ewkbM != 0 {
			dims++
		}
		return t & 0x0fffffff, dims, t&ewkbSRID != 0
	}

	switch t / 1000 {
	case 1, 2:
		dims = 3
	case 3:
		dims = 4
	}
	return t % 1000, dims, false
}

func (f *wkbFlattener) geometry() error {
	if f.pos >= len(f.in) {
		return errShortWKB
	}
	var order binary.ByteOrder
	switch f.in[f.pos] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return fmt.Errorf("invalid WKB byte order %d", f.in[f.pos])
	}
	f.pos++

	t, err := f.uint32(order)
	if err != nil {
		return err
	}
	base, dims, srid := wkbType(t)
	if srid {
		if _, err = f.uint32(order); err != nil {
			return err
		}
	}

	f.out = append(f.out, 1)
	f.out = binary.LittleEndian.AppendUint32(f.out, base)

	switch base {
	case wkbPoint:
		return f.points(order, dims, 1)
	case wkbLineString:
		return f.pointList(order, dims)
	case wkbPolygon:
		n, err := f.count(order, 4)
		if err != nil {
			return err
		}
		for range n {
			if err = f.pointList(order, dims); err != nil {
				return err
			}
		}
		return nil
	case wkbMultiPoint, wkbMultiLineString, wkbMultiPolygon,
		wkbGeometryCollection:
		n, err := f.count(order, 5)
		if err != nil {
			return err
		}
		for range n {
			if err = f.geometry(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported WKB geometry type %d", t)
	}
}

func (f *wkbFlattener) pointList(order binary.ByteOrder, dims int) error {
	n, err := f.count(order, dims*8)
	if err != nil {
		return err
	}
	return f.points(order, dims, n)
}

// count reads and copies an element count. minSize is the smallest
// encoded element, used to reject counts the input cannot hold.
func (f *wkbFlattener) count(order binary.ByteOrder, minSize int) (int, error) {
	n, err := f.uint32(order)
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(minSize) > int64(len(f.in)-f.pos) {
		return 0, errShortWKB
	}
	f.out = binary.LittleEndian.AppendUint32(f.out, n)
	return int(n), nil
}

// points copies x and y of n points and skips the other ordinates.
func (f *wkbFlattener) points(order binary.ByteOrder, dims, n int) error {
	size := dims * 8
	if n*size > len(f.in)-f.pos {
		return errShortWKB
	}
	for range n {
		f.out = binary.LittleEndian.AppendUint64(f.out, order.Uint64(f.in[f.pos:]))
		f.out = binary.LittleEndian.AppendUint64(f.out, order.Uint64(f.in[f.pos+8:]))
		f.pos += size
	}
	return nil
}

func (f *wkbFlattener) uint32(order binary.ByteOrder) (uint32, error) {
	if f.pos+4 > len(f.in) {
		return 0, errShortWKB
	}
	v := order.Uint32(f.in[f.pos:])
	f.pos += 4
	return v, nil
}
