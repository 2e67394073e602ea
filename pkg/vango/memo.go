package vango

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// DefaultMemoCacheSize is the default number of entries a memoized component
// keeps.
const DefaultMemoCacheSize = 256

// maxKeyDepth bounds the props serialization; deeper values are keyed by
// identity.
const maxKeyDepth = 32

type memoConfig struct {
	name  string
	size  int
	equal func(prev, next vdom.Props) bool
}

// MemoOption configures Memo.
type MemoOption func(*memoConfig)

// WithCacheSize bounds the number of cached outputs. 0 means unbounded;
// negative values are ignored.
func WithCacheSize(n int) MemoOption {
	return func(c *memoConfig) {
		if n >= 0 {
			c.size = n
		}
	}
}

// WithEquality records a props equality function. It is currently not
// consulted: cache lookups always use the serialized props.
func WithEquality(fn func(prev, next vdom.Props) bool) MemoOption {
	return func(c *memoConfig) {
		c.equal = fn
	}
}

// WithMemoName overrides the component name reported to observers.
func WithMemoName(name string) MemoOption {
	return func(c *memoConfig) {
		if name != "" {
			c.name = name
		}
	}
}

type memoEntry struct {
	out   any
	slots int // hook slots consumed by the invocation that computed out
}

// MemoComponent caches the output of a component by its serialized props.
// On a hit the wrapped component is not called and the hook index is
// advanced past the slots it consumed when the entry was computed.
type MemoComponent struct {
	inner vdom.Component
	cfg   memoConfig

	mu    sync.Mutex
	cache *lru.Cache[string, memoEntry]
}

// Memo wraps comp, a hook-aware or static component.
func Memo(comp vdom.Component, opts ...MemoOption) *MemoComponent {
	cfg := memoConfig{
		name: "Memo(" + comp.ComponentName() + ")",
		size: DefaultMemoCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	size := cfg.size
	if size == 0 {
		size = math.MaxInt
	}
	cache, err := lru.New[string, memoEntry](size)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &MemoComponent{inner: comp, cfg: cfg, cache: cache}
}

// ComponentName implements vdom.Component.
func (m *MemoComponent) ComponentName() string {
	return m.cfg.name
}

// Loading implements vdom.LoadingReporter by forwarding to the wrapped
// component.
func (m *MemoComponent) Loading() bool {
	if r, ok := m.inner.(vdom.LoadingReporter); ok {
		return r.Loading()
	}
	return false
}

func (m *MemoComponent) watch(s *Session) bool {
	if w, ok := m.inner.(watcher); ok {
		return w.watch(s)
	}
	return m.Loading()
}

// Render implements HookComponent.
func (m *MemoComponent) Render(c *Ctx, props vdom.Props) any {
	obs := c.s.cfg.observers
	key := c.s.id + "\x00" + string(c.identity) + "\x00" + PropsKey(props)

	m.mu.Lock()
	e, ok := m.cache.Get(key)
	m.mu.Unlock()

	// A hit whose slots are gone (e.g. after Store.Drop) is recomputed.
	if ok && c.hasSlots(e.slots) {
		c.skip(e.slots)
		obs.MemoLookup(m.cfg.name, true)
		return e.out
	}
	obs.MemoLookup(m.cfg.name, false)

	before := c.index
	out, err := c.Invoke(m.inner, props)
	if err != nil {
		panic(err)
	}

	m.mu.Lock()
	evicted := m.cache.Add(key, memoEntry{out: out, slots: c.index - before})
	m.mu.Unlock()
	if evicted {
		obs.MemoEvicted(m.cfg.name)
	}
	return out
}

// Len returns the number of cached outputs.
func (m *MemoComponent) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}

// Reset drops every cached output.
func (m *MemoComponent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Purge()
}

// PropsKey returns the canonical serialization of props used as memo cache
// key. Map keys are sorted; functions, channels and pointers other than
// virtual nodes are keyed by identity. Numbers keep their type: 1, 1.0 and
// int64(1) are distinct keys.
func PropsKey(props vdom.Props) string {
	if props == nil {
		props = vdom.Props{}
	}
	var b strings.Builder
	writeKey(&b, reflect.ValueOf(map[string]any(props)), 0)
	return b.String()
}

var vnodeType = reflect.TypeOf((*vdom.VNode)(nil))

var (
	intType     = reflect.TypeOf(0)
	float64Type = reflect.TypeOf(0.0)
)

// writeNumber writes text, wrapped in the type name unless v is a plain int
// or float64.
func writeNumber(b *strings.Builder, v reflect.Value, text string) {
	if t := v.Type(); t != intType && t != float64Type {
		b.WriteString(t.String() + "(" + text + ")")
		return
	}
	b.WriteString(text)
}

func writeKey(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		b.WriteString("null")
		return
	}
	if depth > maxKeyDepth {
		writeIdentity(b, v)
		return
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		writeKey(b, v.Elem(), depth)
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeNumber(b, v, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeNumber(b, v, strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := strconv.FormatFloat(v.Float(), 'g', -1, 64)
		if !strings.ContainsAny(f, ".eIN") {
			f += ".0"
		}
		writeNumber(b, v, f)
	case reflect.Complex64, reflect.Complex128:
		b.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		s, _ := json.Marshal(v.String())
		b.Write(s)
	case reflect.Slice:
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		writeList(b, v, depth)
	case reflect.Array:
		writeList(b, v, depth)
	case reflect.Map:
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		writeMap(b, v, depth)
	case reflect.Struct:
		t := v.Type()
		b.WriteByte('{')
		for i := 0; i < t.NumField(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			name, _ := json.Marshal(t.Field(i).Name)
			b.Write(name)
			b.WriteByte(':')
			writeKey(b, v.Field(i), depth+1)
		}
		b.WriteByte('}')
	case reflect.Pointer:
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		if v.Type() == vnodeType && v.CanInterface() {
			n := v.Interface().(*vdom.VNode)
			b.WriteString(`{"type":`)
			if tag, ok := n.Tag(); ok {
				s, _ := json.Marshal(tag)
				b.Write(s)
			} else {
				writeIdentity(b, reflect.ValueOf(n.Type))
			}
			b.WriteString(`,"props":`)
			writeKey(b, reflect.ValueOf(map[string]any(n.Props)), depth+1)
			b.WriteString(`,"children":`)
			writeKey(b, reflect.ValueOf(n.Children), depth+1)
			b.WriteByte('}')
			return
		}
		writeIdentity(b, v)
	default:
		writeIdentity(b, v)
	}
}

func writeList(b *strings.Builder, v reflect.Value, depth int) {
	b.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, v.Index(i), depth+1)
	}
	b.WriteByte(']')
}

func writeMap(b *strings.Builder, v reflect.Value, depth int) {
	type kv struct {
		key string
		val reflect.Value
	}
	entries := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var kb strings.Builder
		k := iter.Key()
		if k.Kind() == reflect.String {
			kb.WriteString(k.String())
		} else {
			writeKey(&kb, k, depth+1)
		}
		entries = append(entries, kv{key: kb.String(), val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		s, _ := json.Marshal(e.key)
		b.Write(s)
		b.WriteByte(':')
		writeKey(b, e.val, depth+1)
	}
	b.WriteByte('}')
}

// writeIdentity writes a "%T@%p" style token.
func writeIdentity(b *strings.Builder, v reflect.Value) {
	if !v.IsValid() {
		b.WriteString("null")
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		fmt.Fprintf(b, `"%s@%#x"`, v.Type(), v.Pointer())
	default:
		fmt.Fprintf(b, `"%s@?"`, v.Type())
	}
}
