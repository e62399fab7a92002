// Package trace stores generated operations in append-only binary files, one
// record per operation:
//
//	kind (8) | len(key) (8) | key | len(value) (8) | value
//
// Reads are recorded with an empty value.
//
// Trace names are relative to grove_ffi.DataDir, where grove_ffi keeps its
// files; @Path gives the location on disk.
package trace

import (
	"os"
	"path/filepath"

	"github.com/mit-pdos/gokv/grove_ffi"
	"github.com/pingcap/errors"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/ycsbgen/util"
	"github.com/mit-pdos/ycsbgen/workload"
)

func Encode(bs []byte, op workload.Operation) []byte {
	bs1 := marshal.WriteInt(bs, uint64(op.Kind))
	bs2 := util.EncodeString(bs1, op.Key)
	return util.EncodeBytes(bs2, op.Value)
}

// Decode reads one record from the front of @bs and returns the rest.
func Decode(bs []byte) (workload.Operation, []byte, error) {
	if uint64(len(bs)) < 8 {
		return workload.Operation{}, nil, errors.Errorf("truncated record kind (%d bytes)", len(bs))
	}
	kind, bs1 := marshal.ReadInt(bs)
	if kind >= workload.N_OP_KINDS {
		return workload.Operation{}, nil, errors.Errorf("unknown operation kind %d", kind)
	}
	key, bs2, err := util.DecodeString(bs1)
	if err != nil {
		return workload.Operation{}, nil, errors.Annotate(err, "key")
	}
	value, bs3, err := util.DecodeBytes(bs2)
	if err != nil {
		return workload.Operation{}, nil, errors.Annotate(err, "value")
	}

	op := workload.Operation{
		Kind: workload.OpKind(kind),
		Key:  key,
	}
	if op.Kind != workload.OP_READ {
		op.Value = value
	}
	return op, bs3, nil
}

// Path returns where trace @fname lives on disk.
func Path(fname string) string {
	return filepath.Join(grove_ffi.DataDir, fname)
}

// Append writes @ops to the end of @fname, creating it if needed.
func Append(fname string, ops []workload.Operation) error {
	// grove_ffi.FileAppend panics if the directory is missing.
	if err := os.MkdirAll(filepath.Dir(Path(fname)), 0755); err != nil {
		return errors.Trace(err)
	}
	bs := make([]byte, 0, 64*len(ops))
	for _, op := range ops {
		bs = Encode(bs, op)
	}
	grove_ffi.FileAppend(fname, bs)
	return nil
}

// Remove deletes trace @fname; a missing trace is not an error.
func Remove(fname string) error {
	err := os.Remove(Path(fname))
	if err != nil && !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	return nil
}

func Read(fname string) ([]workload.Operation, error) {
	// grove_ffi.FileRead returns nil on any error.
	if _, err := os.Stat(Path(fname)); err != nil {
		return nil, errors.Trace(err)
	}

	var ops []workload.Operation
	var data = grove_ffi.FileRead(fname)

	for 0 < uint64(len(data)) {
		op, rest, err := Decode(data)
		if err != nil {
			return nil, errors.Annotatef(err, "%s: record %d", fname, len(ops))
		}
		ops = append(ops, op)
		data = rest
	}
	return ops, nil
}
