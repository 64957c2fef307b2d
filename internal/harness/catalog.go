package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/list"
	"github.com/roach88/siglist/internal/queryir"
	"github.com/roach88/siglist/internal/store"
)

// AllSignals names the list that holds every signal in declaration order.
const AllSignals = "signals"

// Catalog is the device/signal model a scenario runs against.
//
// Every signal is an item of the AllSignals list and, separately, an item
// of its device's list. The two items carry copies of the same payload;
// an item lives in exactly one list.
type Catalog struct {
	items   *list.Store[ir.Signal]
	devices map[string]*ir.Device
	lists   map[string]*list.List
	order   []string

	// members holds every list's items in position order (head first).
	members map[string][]list.Item

	// sources maps a payload back to the list position holding it.
	sources map[*ir.Signal]queryir.Source
}

// NewCatalog builds the catalog for devices into items. Signals are indexed
// in declaration order across all devices.
func NewCatalog(items *list.Store[ir.Signal], devices []ir.DeviceSpec) (*Catalog, error) {
	c := &Catalog{
		items:   items,
		devices: make(map[string]*ir.Device),
		lists:   make(map[string]*list.List),
		members: make(map[string][]list.Item),
		sources: make(map[*ir.Signal]queryir.Source),
	}

	var all []ir.Signal
	perDevice := make(map[string][]ir.Signal)
	for _, spec := range devices {
		if _, dup := c.devices[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate device %q", spec.Name)
		}
		dev := &ir.Device{Name: spec.Name}
		c.devices[spec.Name] = dev
		c.order = append(c.order, spec.Name)

		for _, ss := range spec.Signals {
			sig, err := newSignal(dev, ss, int64(len(all)))
			if err != nil {
				return nil, fmt.Errorf("device %s: %w", spec.Name, err)
			}
			all = append(all, sig)
			perDevice[spec.Name] = append(perDevice[spec.Name], sig)
		}
	}

	c.build(AllSignals, all)
	for _, name := range c.order {
		c.build(name, perDevice[name])
	}
	return c, nil
}

func newSignal(dev *ir.Device, spec ir.SignalSpec, index int64) (ir.Signal, error) {
	dir := ir.Direction(spec.Direction)
	if !ir.ValidDirections[dir] {
		return ir.Signal{}, fmt.Errorf("signal %s: invalid direction %q", spec.Name, spec.Direction)
	}
	typ := spec.Type
	if typ == "" {
		typ = "f"
	}
	if !ir.ValidSignalTypes[typ] {
		return ir.Signal{}, fmt.Errorf("signal %s: invalid type %q", spec.Name, spec.Type)
	}
	length := spec.Length
	if length == 0 {
		length = 1
	}
	return ir.Signal{
		Device:    dev,
		Name:      spec.Name,
		Direction: dir,
		Length:    length,
		Type:      rune(typ[0]),
		Unit:      spec.Unit,
		Index:     index,
	}, nil
}

// build links sigs into a new list. Add links at the head, so the signals
// are added last to first.
func (c *Catalog) build(name string, sigs []ir.Signal) {
	l := &list.List{}
	items := make([]list.Item, len(sigs))
	for i := len(sigs) - 1; i >= 0; i-- {
		it := c.items.Add(l)
		v := c.items.Value(it)
		*v = sigs[i]
		items[i] = it
		c.sources[v] = queryir.Source{List: name, Position: i}
	}
	c.lists[name] = l
	c.members[name] = items
}

// Device returns the device named name, or nil.
func (c *Catalog) Device(name string) *ir.Device {
	return c.devices[name]
}

// Resolve returns the item a scenario source names: AllSignals or a device
// name for the head of that list, or "device/signal" for that signal's
// position in AllSignals.
func (c *Catalog) Resolve(source string) (list.Item, error) {
	if l, ok := c.lists[source]; ok {
		if l.Empty() {
			return list.Item{}, fmt.Errorf("source %q is an empty list", source)
		}
		return l.First(), nil
	}
	if dev, sig, ok := strings.Cut(source, "/"); ok {
		for _, it := range c.members[AllSignals] {
			v := c.items.Value(it)
			if v.Device.Name == dev && v.Name == sig {
				return it, nil
			}
		}
	}
	return list.Item{}, fmt.Errorf("unknown source %q", source)
}

// Name returns the "device/signal" name of an item's payload.
func (c *Catalog) Name(it list.Item) string {
	if v := c.items.Value(it); v != nil {
		return v.FullName()
	}
	return ""
}

// Names returns the names of items in order.
func (c *Catalog) Names(items []list.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = c.Name(it)
	}
	return out
}

// MapSource turns a description Source into a list position. Used with
// queryir.MapSources before SQL compilation.
func (c *Catalog) MapSource(src queryir.Source) (queryir.Source, error) {
	sig, ok := src.Origin.Target.(*ir.Signal)
	if !ok {
		return src, fmt.Errorf("source origin %s is not a catalog signal", src.Origin.TypeName())
	}
	resolved, ok := c.sources[sig]
	if !ok {
		return src, fmt.Errorf("source %s is not in the catalog", sig.FullName())
	}
	return resolved, nil
}

// Mirror returns the catalog lists in the form the SQL mirror stores them.
func (c *Catalog) Mirror() []store.CatalogList {
	names := append([]string{AllSignals}, c.order...)
	out := make([]store.CatalogList, 0, len(names))
	for _, name := range names {
		items := c.members[name]
		sigs := make([]*ir.Signal, len(items))
		for i, it := range items {
			sigs[i] = c.items.Value(it)
		}
		out = append(out, store.CatalogList{Name: name, Signals: sigs})
	}
	return out
}

// Release unlinks and frees every item of every list.
func (c *Catalog) Release() {
	for name, l := range c.lists {
		for _, it := range c.members[name] {
			c.items.Remove(l, it)
			c.items.FreeItem(it)
		}
		delete(c.lists, name)
		delete(c.members, name)
	}
	clear(c.sources)
}
