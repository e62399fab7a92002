package options

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/pingcap/errors"

	"github.com/mit-pdos/ycsbgen/params"
	"github.com/mit-pdos/ycsbgen/util"
)

// Request distributions.
const (
	DIST_ZIPFIAN          = "zipfian"
	DIST_UNIFORM          = "uniform"
	DIST_HOTSPOT          = "hotspot"
	DIST_LATEST           = "latest"
	DIST_HOTSPOT_SHIFTING = "hotspotshifting"
)

// Keys of a workload file.
const (
	KEY_RECORD_COUNT           = "recordcount"
	KEY_OPERATION_COUNT        = "operationcount"
	KEY_READ_PROPORTION        = "readproportion"
	KEY_INSERT_PROPORTION      = "insertproportion"
	KEY_UPDATE_PROPORTION      = "updateproportion"
	KEY_RMW_PROPORTION         = "rmwproportion"
	KEY_RMW_PROPORTION_YCSB    = "readmodifywriteproportion"
	KEY_ZIPFIAN_CONSTANT       = "zipfianconstant"
	KEY_HOTSPOT_OPN_FRACTION   = "hotspotopnfraction"
	KEY_HOTSPOT_DATA_FRACTION  = "hotspotdatafraction"
	KEY_VALUE_LENGTH           = "valuelength"
	KEY_FIELD_COUNT            = "fieldcount"
	KEY_FIELD_LENGTH           = "fieldlength"
	KEY_BASE_SEED              = "baseseed"
	KEY_REQUEST_DISTRIBUTION   = "requestdistribution"
	KEY_LOAD_SLEEP             = "loadsleep"
	KEY_PHASE1_OPERATION_COUNT = "phase1operationcount"
)

type Options struct {
	// Number of keys inserted by the load phase.
	RecordCount          uint64
	// Number of operations issued by the run phase.
	OperationCount       uint64
	// Operation mix of the run phase. Mass left after the first three
	// goes to read-modify-write.
	ReadProportion       float64
	InsertProportion     float64
	UpdateProportion     float64
	RMWProportion        float64
	// Skew of the zipfian and latest distributions.
	ZipfianConstant      float64
	// Fraction of operations hitting the hot set.
	HotspotOpnFraction   float64
	// Fraction of keys in the hot set.
	HotspotSetFraction   float64
	// Length of every generated value in bytes.
	ValueLen             uint64
	// Worker i seeds its random source with BaseSeed + i.
	BaseSeed             uint64
	RequestDistribution  string
	// Pause between the load and the run phase.
	LoadSleep            time.Duration
	// Extra run-phase operations served by the first hot region of the
	// hotspotshifting distribution.
	Phase1OperationCount uint64
}

func Default() *Options {
	opts := &Options{
		RecordCount:         params.DEFAULT_RECORD_COUNT,
		OperationCount:      params.DEFAULT_OPERATION_COUNT,
		ReadProportion:      params.DEFAULT_READ_PROPORTION,
		ZipfianConstant:     params.DEFAULT_ZIPFIAN_CONSTANT,
		HotspotOpnFraction:  params.DEFAULT_HOTSPOT_OPN_FRACTION,
		HotspotSetFraction:  params.DEFAULT_HOTSPOT_SET_FRACTION,
		ValueLen:            params.DEFAULT_FIELD_COUNT * params.DEFAULT_FIELD_LENGTH,
		BaseSeed:            params.DEFAULT_BASE_SEED,
		RequestDistribution: params.DEFAULT_DISTRIBUTION,
		LoadSleep:           time.Duration(params.NS_LOAD_SLEEP),
	}
	return opts
}

// LoadFile reads a workload file of "key = value" lines. Lines starting with
// '#' are comments and unknown keys are ignored. Absent keys keep their
// defaults.
func LoadFile(fname string) (*Options, error) {
	p, err := properties.LoadFile(fname, properties.UTF8)
	if err != nil {
		return nil, errors.Annotatef(err, "read workload file %s", fname)
	}
	opts, err := fromProperties(p)
	if err != nil {
		return nil, errors.Annotatef(err, "workload file %s", fname)
	}
	return opts, nil
}

// LoadString is @LoadFile on an in-memory workload description.
func LoadString(s string) (*Options, error) {
	p, err := properties.LoadString(s)
	if err != nil {
		return nil, errors.Annotate(err, "parse workload")
	}
	return fromProperties(p)
}

// fromProperties fills a fresh @Options; on error nothing is returned, so a
// half-parsed workload is never used.
func fromProperties(p *properties.Properties) (*Options, error) {
	opts := Default()
	var err error

	u64 := func(key string, dst *uint64, hex bool) {
		if err != nil {
			return
		}
		if s, ok := p.Get(key); ok {
			s = strings.TrimSpace(s)
			base := 10
			if hex && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
				s = s[2:]
				base = 16
			}
			var v uint64
			v, err = strconv.ParseUint(s, base, 64)
			if err != nil {
				err = errors.Annotatef(err, "field %s", key)
				return
			}
			*dst = v
		}
	}
	f64 := func(key string, dst *float64) {
		if err != nil {
			return
		}
		if s, ok := p.Get(key); ok {
			var v float64
			v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				err = errors.Annotatef(err, "field %s", key)
				return
			}
			*dst = v
		}
	}

	u64(KEY_RECORD_COUNT, &opts.RecordCount, false)
	u64(KEY_OPERATION_COUNT, &opts.OperationCount, false)
	f64(KEY_READ_PROPORTION, &opts.ReadProportion)
	f64(KEY_INSERT_PROPORTION, &opts.InsertProportion)
	f64(KEY_UPDATE_PROPORTION, &opts.UpdateProportion)
	f64(KEY_RMW_PROPORTION_YCSB, &opts.RMWProportion)
	f64(KEY_RMW_PROPORTION, &opts.RMWProportion)
	f64(KEY_ZIPFIAN_CONSTANT, &opts.ZipfianConstant)
	f64(KEY_HOTSPOT_OPN_FRACTION, &opts.HotspotOpnFraction)
	f64(KEY_HOTSPOT_DATA_FRACTION, &opts.HotspotSetFraction)
	// Decimal, or hexadecimal with an explicit 0x.
	u64(KEY_BASE_SEED, &opts.BaseSeed, true)
	u64(KEY_PHASE1_OPERATION_COUNT, &opts.Phase1OperationCount, false)

	if _, ok := p.Get(KEY_VALUE_LENGTH); ok {
		u64(KEY_VALUE_LENGTH, &opts.ValueLen, false)
	} else {
		nfields := params.DEFAULT_FIELD_COUNT
		szfield := params.DEFAULT_FIELD_LENGTH
		u64(KEY_FIELD_COUNT, &nfields, false)
		u64(KEY_FIELD_LENGTH, &szfield, false)
		opts.ValueLen = nfields * szfield
	}

	var sleep uint64
	if _, ok := p.Get(KEY_LOAD_SLEEP); ok {
		u64(KEY_LOAD_SLEEP, &sleep, false)
		if err == nil && sleep > uint64(math.MaxInt64/int64(time.Second)) {
			err = errors.Errorf("field %s: %d seconds overflows a duration", KEY_LOAD_SLEEP, sleep)
		}
		opts.LoadSleep = time.Duration(sleep) * time.Second
	}

	if s, ok := p.Get(KEY_REQUEST_DISTRIBUTION); ok {
		opts.RequestDistribution = strings.ToLower(strings.TrimSpace(s))
	}

	if err != nil {
		return nil, err
	}
	return opts, nil
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}

// Validate checks the invariants the generator relies on.
func (opts *Options) Validate() error {
	props := []struct {
		name string
		v    float64
	}{
		{KEY_READ_PROPORTION, opts.ReadProportion},
		{KEY_INSERT_PROPORTION, opts.InsertProportion},
		{KEY_UPDATE_PROPORTION, opts.UpdateProportion},
		{KEY_RMW_PROPORTION, opts.RMWProportion},
		{KEY_ZIPFIAN_CONSTANT, opts.ZipfianConstant},
		{KEY_HOTSPOT_OPN_FRACTION, opts.HotspotOpnFraction},
		{KEY_HOTSPOT_DATA_FRACTION, opts.HotspotSetFraction},
	}
	for _, p := range props {
		if !inUnit(p.v) {
			return errors.Errorf("%s = %v outside [0, 1]", p.name, p.v)
		}
	}

	sum := opts.ReadProportion + opts.InsertProportion + opts.UpdateProportion + opts.RMWProportion
	if sum > 1+params.PROPORTION_EPSILON {
		return errors.Errorf("operation proportions sum to %v > 1", sum)
	}

	switch opts.RequestDistribution {
	case DIST_ZIPFIAN, DIST_UNIFORM, DIST_LATEST, DIST_HOTSPOT_SHIFTING:
	case DIST_HOTSPOT:
		if opts.RecordCount == 0 {
			return errors.Errorf("%s distribution needs %s > 0", DIST_HOTSPOT, KEY_RECORD_COUNT)
		}
	default:
		return errors.Errorf("unknown request distribution %q", opts.RequestDistribution)
	}

	// With no loaded record, a read, update or read-modify-write drawn before
	// the first insert would never find an eligible key.
	if opts.RecordCount == 0 && opts.InsertProportion < 1 {
		return errors.Errorf("%s = 0 requires %s = 1", KEY_RECORD_COUNT, KEY_INSERT_PROPORTION)
	}

	if _, err := opts.TotalOperations(); err != nil {
		return err
	}
	estimate, err := opts.EstimatedKeys()
	if err != nil {
		return err
	}
	if estimate == 0 {
		return errors.New("empty key space")
	}
	return nil
}

// RunOperations returns the number of operations in the run phase.
func (opts *Options) RunOperations() (uint64, error) {
	n, err := util.SumChecked(opts.OperationCount, opts.Phase1OperationCount)
	if err != nil {
		return 0, errors.Annotate(err, "run operation count")
	}
	return n, nil
}

// TotalOperations returns the length of the whole stream, load included.
func (opts *Options) TotalOperations() (uint64, error) {
	nrun, err := opts.RunOperations()
	if err != nil {
		return 0, err
	}
	n, err := util.SumChecked(opts.RecordCount, nrun)
	if err != nil {
		return 0, errors.Annotate(err, "total operation count")
	}
	return n, nil
}

// EstimatedKeys bounds the final key space: the loaded records plus twice the
// expected number of run-phase inserts.
func (opts *Options) EstimatedKeys() (uint64, error) {
	extra := math.Floor(2 * float64(opts.OperationCount) * opts.InsertProportion)
	if extra >= math.MaxUint64 {
		return 0, errors.New("estimated key count overflows uint64")
	}
	n, err := util.SumChecked(opts.RecordCount, uint64(extra))
	if err != nil {
		return 0, errors.Annotate(err, "estimated key count")
	}
	return n, nil
}

func (opts *Options) String() string {
	var b strings.Builder
	line := func(key string, v interface{}) {
		fmt.Fprintf(&b, "%s = %v\n", key, v)
	}
	line(KEY_RECORD_COUNT, opts.RecordCount)
	line(KEY_OPERATION_COUNT, opts.OperationCount)
	line(KEY_READ_PROPORTION, opts.ReadProportion)
	line(KEY_INSERT_PROPORTION, opts.InsertProportion)
	line(KEY_UPDATE_PROPORTION, opts.UpdateProportion)
	line(KEY_RMW_PROPORTION, opts.RMWProportion)
	line(KEY_ZIPFIAN_CONSTANT, opts.ZipfianConstant)
	line(KEY_HOTSPOT_OPN_FRACTION, opts.HotspotOpnFraction)
	line(KEY_HOTSPOT_DATA_FRACTION, opts.HotspotSetFraction)
	line(KEY_VALUE_LENGTH, opts.ValueLen)
	line(KEY_BASE_SEED, opts.BaseSeed)
	line(KEY_REQUEST_DISTRIBUTION, opts.RequestDistribution)
	line(KEY_LOAD_SLEEP, uint64(opts.LoadSleep/time.Second))
	line(KEY_PHASE1_OPERATION_COUNT, opts.Phase1OperationCount)
	return b.String()
}
