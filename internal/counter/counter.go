package counter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Counter is a weighted multiset of strings. The zero value is ready to use.
//
// Iteration helpers always walk keys in a canonical order so that equality,
// hashing and serialization never depend on insertion order.
type Counter struct {
	counts map[string]int
}

// Entry is a single key and its weight.
type Entry struct {
	Key   string
	Count int
}

// New returns a counter seeded with each key weighted by one, mirroring how
// a list of observations is tallied.
func New(keys ...string) Counter {
	var c Counter
	for _, key := range keys {
		c.Add(key, 1)
	}
	return c
}

// FromMap copies the provided weights into a new counter.
func FromMap(values map[string]int) Counter {
	var c Counter
	for key, count := range values {
		c.Add(key, count)
	}
	return c
}

// Add increases the weight of key by n. Adding zero still records the key.
func (c *Counter) Add(key string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[key] += n
}

// Merge folds every weight from other into c.
func (c *Counter) Merge(other Counter) {
	for key, count := range other.counts {
		c.Add(key, count)
	}
}

// Get returns the weight for key (zero when absent).
func (c Counter) Get(key string) int {
	return c.counts[key]
}

// Has reports whether key was ever added.
func (c Counter) Has(key string) bool {
	_, ok := c.counts[key]
	return ok
}

// Len returns the number of distinct keys.
func (c Counter) Len() int {
	return len(c.counts)
}

// Total returns the sum of all weights.
func (c Counter) Total() int {
	total := 0
	for _, count := range c.counts {
		total += count
	}
	return total
}

// Keys returns the distinct keys in ascending order.
func (c Counter) Keys() []string {
	keys := make([]string, 0, len(c.counts))
	for key := range c.counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MostCommon returns all entries by descending weight; equal weights are
// ordered by key ascending.
func (c Counter) MostCommon() []Entry {
	entries := make([]Entry, 0, len(c.counts))
	for key, count := range c.counts {
		entries = append(entries, Entry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Map returns a copy of the underlying weights.
func (c Counter) Map() map[string]int {
	out := make(map[string]int, len(c.counts))
	for key, count := range c.counts {
		out[key] = count
	}
	return out
}

// Clone returns an independent copy.
func (c Counter) Clone() Counter {
	return FromMap(c.counts)
}

// Equal compares contents only.
func (c Counter) Equal(other Counter) bool {
	if len(c.counts) != len(other.counts) {
		return false
	}
	for key, count := range c.counts {
		otherCount, ok := other.counts[key]
		if !ok || otherCount != count {
			return false
		}
	}
	return true
}

// Canonical renders the counter as "key:count" pairs in key order. Keys are
// quoted so separators inside keys cannot collide.
func (c Counter) Canonical() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range c.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(key))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(c.counts[key]))
	}
	b.WriteByte('}')
	return b.String()
}

// Hash returns a content hash that is stable across insertion orders.
func (c Counter) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(c.Canonical()))
	return h.Sum64()
}

// String formats entries most-common first.
func (c Counter) String() string {
	parts := make([]string, 0, len(c.counts))
	for _, entry := range c.MostCommon() {
		parts = append(parts, fmt.Sprintf("%q: %d", entry.Key, entry.Count))
	}
	return "Counter({" + strings.Join(parts, ", ") + "})"
}

// MarshalJSON encodes the counter as a JSON object with sorted keys. HTML
// escaping is disabled so every key is stored with its literal characters;
// alias prefix lookups depend on that.
func (c Counter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, key := range c.Keys() {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		// Encoder.Encode appends a newline.
		buf.Truncate(buf.Len() - 1)
		buf.WriteString(": ")
		buf.WriteString(strconv.Itoa(c.counts[key]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of weights.
func (c *Counter) UnmarshalJSON(data []byte) error {
	var values map[string]int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode counter: %w", err)
	}
	*c = FromMap(values)
	return nil
}

// QuotedPrefix returns the serialized form of key as it appears at the start
// of a JSON object member, without the closing quote. A stored counter whose
// JSON contains this string has a key that begins with key.
func QuotedPrefix(key string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return `"` + key
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return strings.TrimSuffix(out, `"`)
}
