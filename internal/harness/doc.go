// Package harness runs scenario documents against the list engine.
//
// A scenario declares a device catalog and a sequence of named query
// definitions with expectations. The harness builds the catalog into a
// list.Store, builds each definition, observes it without moving it, and
// checks what it yields.
//
// # Scenario Format
//
// Scenarios are YAML files (or CUE, see internal/compiler):
//
//	name: evens_and_gains
//	description: "What this scenario validates"
//	verify_sql: true
//	devices:
//	  - name: synth
//	    signals:
//	      - { name: freq, direction: out, unit: Hz }
//	      - { name: gain, direction: in }
//	queries:
//	  - name: evens
//	    op: query
//	    source: signals
//	    predicate: index_mod
//	    args: [2, 0]
//	    expect: [synth/freq]
//	  - name: both
//	    op: union
//	    left: evens
//	    right: gains
//	    length: 2
//	    index:
//	      - { at: 1, want: synth/gain }
//
// # Catalog
//
// Every signal is indexed in declaration order across all devices and
// appears twice: once in the "signals" list and once in its device's list.
// A source is "signals", a device name, or "device/signal" to start the
// signals list at that signal. Items are named "device/signal".
//
// # Checks
//
// For every definition the harness records its items, length and
// description. It checks:
//   - expect: the items, in order, with a unified diff on mismatch
//   - length: the handle's length, which must also equal the item count
//   - index: GetIndex results ("" means none)
//   - verify_sql: the same description compiled by querysql and run
//     against the SQLite mirror must select the same items
//
// After the last definition every handle and every item is released and
// the store must be empty (leak check).
//
// # Deterministic Testing
//
// Package-level Run uses a fixed run id and a testutil.Counter for result
// sequence numbers, so identical scenarios produce identical results and
// golden files (RunWithGolden) stay stable.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/evens.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
