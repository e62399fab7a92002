package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mit-pdos/gokv/grove_ffi"

	"github.com/mit-pdos/ycsbgen/options"
	"github.com/mit-pdos/ycsbgen/workload"
)

func sameOp(a, b workload.Operation) bool {
	return a.Kind == b.Kind && a.Key == b.Key && bytes.Equal(a.Value, b.Value)
}

func TestEncodeDecode(t *testing.T) {
	ops := []workload.Operation{
		{Kind: workload.OP_INSERT, Key: "user1", Value: []byte("user1\x00\x00")},
		{Kind: workload.OP_READ, Key: "user1"},
		{Kind: workload.OP_UPDATE, Key: "user2", Value: []byte{}},
		{Kind: workload.OP_RMW, Key: "", Value: []byte("x")},
	}
	var bs []byte
	for _, op := range ops {
		bs = Encode(bs, op)
	}
	for i, want := range ops {
		op, rest, err := Decode(bs)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !sameOp(op, want) {
			t.Fatalf("record %d = %+v, want %+v", i, op, want)
		}
		bs = rest
	}
	if len(bs) != 0 {
		t.Fatalf("%d trailing bytes", len(bs))
	}
}

func TestDecodeTruncated(t *testing.T) {
	bs := Encode(nil, workload.Operation{Kind: workload.OP_UPDATE, Key: "user7", Value: []byte("abcdef")})
	for n := 0; n < len(bs); n++ {
		if _, _, err := Decode(bs[:n]); err == nil {
			t.Fatalf("Decode of %d of %d bytes succeeded", n, len(bs))
		}
	}
}

func TestDecodeBadKind(t *testing.T) {
	bs := Encode(nil, workload.Operation{Kind: workload.OpKind(9), Key: "k"})
	if _, _, err := Decode(bs); err == nil {
		t.Fatalf("Decode accepted kind 9")
	}
}

// inTempDir runs the rest of the test from a fresh directory, so traces land
// under its grove_ffi.DataDir.
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func mustAppend(t *testing.T, fname string, ops []workload.Operation) {
	t.Helper()
	if err := Append(fname, ops); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	inTempDir(t)
	opts := options.Default()
	opts.LoadSleep = 0
	opts.ValueLen = 16
	opts.RecordCount = 20
	opts.OperationCount = 200
	opts.ReadProportion = 0.5
	opts.InsertProportion = 0.25
	opts.UpdateProportion = 0.25
	g, err := workload.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := workload.NewRand(opts.BaseSeed, 0)

	var ops []workload.Operation
	for !g.IsEOF() {
		ops = append(ops, g.Next(r))
	}

	// Nested names create their directories.
	fname := filepath.Join("run1", "trace.0")
	// Two appends to the same file read back as one trace.
	mustAppend(t, fname, ops[:100])
	mustAppend(t, fname, ops[100:])
	if _, err := os.Stat(Path(fname)); err != nil {
		t.Fatalf("trace not at %s: %v", Path(fname), err)
	}

	back, err := Read(fname)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(back) != len(ops) {
		t.Fatalf("read %d ops, wrote %d", len(back), len(ops))
	}
	for i := range ops {
		if !sameOp(back[i], ops[i]) {
			t.Fatalf("op %d = %+v, want %+v", i, back[i], ops[i])
		}
	}
}

func TestReadMissing(t *testing.T) {
	inTempDir(t)
	if _, err := Read("missing"); err == nil {
		t.Fatalf("Read of a missing file succeeded")
	}

	// A file outside the data directory is not a trace of that name.
	if err := os.WriteFile("other.0", Encode(nil, workload.Operation{Kind: workload.OP_READ, Key: "k"}), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read("other.0"); err == nil {
		t.Fatalf("Read found other.0 outside %s", Path(""))
	}
}

func TestReadGarbage(t *testing.T) {
	inTempDir(t)
	if err := os.MkdirAll(filepath.Dir(Path("other.0")), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(Path("other.0"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if ops, err := Read("other.0"); err == nil {
		t.Fatalf("Read of 7 garbage bytes = %d ops, no error", len(ops))
	}
}

func TestRemoveTruncates(t *testing.T) {
	inTempDir(t)
	first := workload.Operation{Kind: workload.OP_INSERT, Key: "user1", Value: []byte("a")}
	second := workload.Operation{Kind: workload.OP_UPDATE, Key: "user2", Value: []byte("b")}

	if err := Remove("out.0"); err != nil {
		t.Fatalf("Remove of a missing trace: %v", err)
	}
	mustAppend(t, "out.0", []workload.Operation{first})
	if err := Remove("out.0"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	mustAppend(t, "out.0", []workload.Operation{second})

	ops, err := Read("out.0")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(ops) != 1 || !sameOp(ops[0], second) {
		t.Fatalf("trace after Remove = %+v, want only %+v", ops, second)
	}
}

func TestReadTruncatedFile(t *testing.T) {
	inTempDir(t)
	fname := "trace.0"
	op := workload.Operation{Kind: workload.OP_INSERT, Key: "user3", Value: []byte("v")}
	mustAppend(t, fname, []workload.Operation{op})

	bs := Encode(nil, op)
	grove_ffi.FileAppend(fname, bs[:len(bs)-1])

	if _, err := Read(fname); err == nil {
		t.Fatalf("Read of a truncated trace succeeded")
	}
}
