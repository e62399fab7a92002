package util

import (
	"github.com/goose-lang/std"
	"github.com/pingcap/errors"
	"github.com/tchajed/marshal"
)

// SumChecked returns @x + @y, or an error if the sum does not fit in 64 bits.
func SumChecked(x, y uint64) (uint64, error) {
	if !std.SumNoOverflow(x, y) {
		return 0, errors.Errorf("%d + %d overflows uint64", x, y)
	}
	return std.SumAssumeNoOverflow(x, y), nil
}

func EncodeBytes(bs []byte, data []byte) []byte {
	bs1 := marshal.WriteInt(bs, uint64(len(data)))
	return marshal.WriteBytes(bs1, data)
}

func EncodeString(bs []byte, s string) []byte {
	return EncodeBytes(bs, []byte(s))
}

// DecodeBytes reads a length-prefixed byte slice written by @EncodeBytes. The
// returned slice is a copy and does not alias @bs.
func DecodeBytes(bs []byte) ([]byte, []byte, error) {
	if uint64(len(bs)) < 8 {
		return nil, nil, errors.Errorf("truncated length prefix (%d bytes)", len(bs))
	}
	n, bs1 := marshal.ReadInt(bs)
	if uint64(len(bs1)) < n {
		return nil, nil, errors.Errorf("truncated payload: want %d bytes, have %d", n, len(bs1))
	}
	data, bs2 := marshal.ReadBytes(bs1, n)
	return append([]byte{}, data...), bs2, nil
}

func DecodeString(bs []byte) (string, []byte, error) {
	data, bs1, err := DecodeBytes(bs)
	if err != nil {
		return "", nil, err
	}
	return string(data), bs1, nil
}
