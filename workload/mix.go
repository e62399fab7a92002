package workload

import (
	"github.com/mit-pdos/ycsbgen/options"
)

// mixer turns a uniform variate into an operation kind by comparing it
// against the cumulative operation proportions. The residual
// mass is read-modify-write.
type mixer struct {
	rdupper float64
	inupper float64
	upupper float64
}

func newMixer(opts *options.Options) mixer {
	m := mixer{
		rdupper: opts.ReadProportion,
	}
	m.inupper = m.rdupper + opts.InsertProportion
	m.upupper = m.inupper + opts.UpdateProportion
	return m
}

// pick maps @x in [0, 1) to an operation kind.
func (m mixer) pick(x float64) OpKind {
	if x < m.rdupper {
		return OP_READ
	} else if x < m.inupper {
		return OP_INSERT
	} else if x < m.upupper {
		return OP_UPDATE
	} else {
		return OP_RMW
	}
}
