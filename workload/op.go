package workload

import (
	"github.com/mit-pdos/ycsbgen/hasher"
)

type OpKind uint64

const (
	OP_INSERT OpKind = iota
	OP_READ
	OP_UPDATE
	OP_RMW
)

const N_OP_KINDS = 4

func (k OpKind) String() string {
	switch k {
	case OP_INSERT:
		return "INSERT"
	case OP_READ:
		return "READ"
	case OP_UPDATE:
		return "UPDATE"
	case OP_RMW:
		return "RMW"
	}
	return "UNKNOWN"
}

// Operation is handed to exactly one caller and never touched again by the
// generator.
type Operation struct {
	Kind  OpKind
	Key   string
	// Nil for reads.
	Value []byte
}

// newValue returns @szvalue bytes starting with the key name, zero padded or
// truncated.
func newValue(key string, szvalue uint64) []byte {
	v := make([]byte, szvalue)
	copy(v, key)
	return v
}

func mkOp(kind OpKind, ordinal, szvalue uint64) Operation {
	key := hasher.KeyName(ordinal)
	op := Operation{Kind: kind, Key: key}
	if kind != OP_READ {
		op.Value = newValue(key, szvalue)
	}
	return op
}
