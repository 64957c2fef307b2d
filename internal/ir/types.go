package ir

// Direction is the data-flow direction of a signal.
type Direction string

// Signal directions.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ValidDirections defines allowed signal directions.
var ValidDirections = map[Direction]bool{
	DirectionIn:  true,
	DirectionOut: true,
}

// Char returns the single-character code used by direction predicates.
func (d Direction) Char() rune {
	if d == DirectionOut {
		return 'o'
	}
	return 'i'
}

// ValidSignalTypes defines the allowed signal value type codes
// (float, double, int32). Only the code is catalogued, never values.
var ValidSignalTypes = map[string]bool{
	"f": true,
	"d": true,
	"i": true,
}

// Device is a named endpoint that exposes signals.
type Device struct {
	Name string `json:"name"`
}

// Signal is a catalog entry stored as a list item payload.
// Index is the signal's position in catalog declaration order.
type Signal struct {
	Device    *Device   `json:"-"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Length    int32     `json:"length"`
	Type      rune      `json:"type"`
	Unit      string    `json:"unit,omitempty"`
	Index     int64     `json:"index"`
}

// FullName returns "device/signal", the name scenarios and the SQL mirror
// use to identify a signal.
func (s *Signal) FullName() string {
	if s.Device == nil {
		return s.Name
	}
	return s.Device.Name + "/" + s.Name
}

// Scenario is a compiled scenario document: a device catalog and a sequence
// of query definitions with expectations.
type Scenario struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Devices     []DeviceSpec `yaml:"devices" json:"devices"`
	Queries     []QueryDef   `yaml:"queries" json:"queries"`

	// VerifySQL cross-checks every expectation against the SQLite mirror.
	VerifySQL bool `yaml:"verify_sql,omitempty" json:"verify_sql,omitempty"`
}

// DeviceSpec declares a device and its signals.
type DeviceSpec struct {
	Name    string       `yaml:"name" json:"name"`
	Signals []SignalSpec `yaml:"signals" json:"signals"`
}

// SignalSpec declares one signal of a device.
type SignalSpec struct {
	Name      string `yaml:"name" json:"name"`
	Direction string `yaml:"direction" json:"direction"`
	Length    int32  `yaml:"length,omitempty" json:"length,omitempty"`
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Unit      string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Query operations understood by scenarios.
const (
	OpQuery        = "query"
	OpList         = "list"
	OpFilter       = "filter"
	OpUnion        = "union"
	OpIntersection = "intersection"
	OpDifference   = "difference"
	OpCopy         = "copy"
)

// ValidOps defines allowed query definition operations.
var ValidOps = map[string]bool{
	OpQuery:        true,
	OpList:         true,
	OpFilter:       true,
	OpUnion:        true,
	OpIntersection: true,
	OpDifference:   true,
	OpCopy:         true,
}

// QueryDef defines a named handle built from lists, predicates or other
// definitions.
//
//	op: query         source + predicate + args
//	op: list          source: "signals", a device name, or "dev/sig" to
//	                  start the signals list at that signal
//	op: filter        left + predicate + args
//	op: union|intersection|difference   left + right
//	op: copy          left
type QueryDef struct {
	Name      string `yaml:"name" json:"name"`
	Op        string `yaml:"op" json:"op"`
	Source    string `yaml:"source,omitempty" json:"source,omitempty"`
	Predicate string `yaml:"predicate,omitempty" json:"predicate,omitempty"`
	Args      []any  `yaml:"args,omitempty" json:"args,omitempty"`
	Left      string `yaml:"left,omitempty" json:"left,omitempty"`
	Right     string `yaml:"right,omitempty" json:"right,omitempty"`

	// Expect lists signal names in iteration order. nil skips the check.
	Expect []string `yaml:"expect,omitempty" json:"expect,omitempty"`

	// Length, when set, is compared against the handle's length.
	Length *int `yaml:"length,omitempty" json:"length,omitempty"`

	// Index checks random access results.
	Index []IndexCheck `yaml:"index,omitempty" json:"index,omitempty"`
}

// IndexCheck expects GetIndex(handle, At) to name Want ("" means none).
type IndexCheck struct {
	At   int    `yaml:"at" json:"at"`
	Want string `yaml:"want" json:"want"`
}
