package params

// Prefix of every generated key name.
const KEY_PREFIX string = "user"

// Initial domain size of the sampler behind the latest distribution.
const LATEST_INITIAL_ITEMS uint64 = 100

// Seed shared by all workers unless overridden; worker i uses BASE_SEED + i.
const DEFAULT_BASE_SEED uint64 = 0x202309202027

// Defaults of the workload options.
const (
	DEFAULT_RECORD_COUNT         uint64  = 10
	DEFAULT_OPERATION_COUNT      uint64  = 10
	DEFAULT_READ_PROPORTION      float64 = 1
	DEFAULT_ZIPFIAN_CONSTANT     float64 = 0.99
	DEFAULT_HOTSPOT_OPN_FRACTION float64 = 0.1
	DEFAULT_HOTSPOT_SET_FRACTION float64 = 0.1
	DEFAULT_FIELD_COUNT          uint64  = 10
	DEFAULT_FIELD_LENGTH         uint64  = 100
	DEFAULT_DISTRIBUTION         string  = "zipfian"
)

// Pause between the load and the run phase: 150s.
const NS_LOAD_SLEEP uint64 = 150_000_000_000

// Slack allowed when checking that proportions sum to at most one.
const PROPORTION_EPSILON float64 = 1e-9
