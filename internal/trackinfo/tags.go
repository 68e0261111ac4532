package trackinfo

import "strings"

// Tags is a case-insensitive key/value dictionary of tag fields (artist,
// album, title, tracknumber, ...). Keys are stored folded to lower case;
// the original casing of the first write is preserved for iteration via
// Keys, matching how the reference tag reader preserves file-supplied
// casing for display while comparing case-insensitively.
type Tags struct {
	order []string
	byKey map[string]string
	orig  map[string]string
}

// NewTags returns an empty tag dictionary.
func NewTags() *Tags {
	return &Tags{
		byKey: make(map[string]string),
		orig:  make(map[string]string),
	}
}

// Set stores value under key, case-insensitively. The first Set for a key
// fixes the display casing used by Keys.
func (t *Tags) Set(key, value string) {
	fold := strings.ToLower(key)
	if _, ok := t.byKey[fold]; !ok {
		t.order = append(t.order, fold)
		t.orig[fold] = key
	}
	t.byKey[fold] = value
}

// Get returns the value for key (case-insensitive) and whether it was set.
func (t *Tags) Get(key string) (string, bool) {
	v, ok := t.byKey[strings.ToLower(key)]
	return v, ok
}

// Has reports whether key is set and non-empty.
func (t *Tags) Has(key string) bool {
	v, ok := t.Get(key)
	return ok && v != ""
}

// Keys returns tag keys in first-write order, using the display casing
// captured at the first Set call.
func (t *Tags) Keys() []string {
	keys := make([]string, len(t.order))
	for i, fold := range t.order {
		keys[i] = t.orig[fold]
	}
	return keys
}

// Len returns the number of distinct tag keys.
func (t *Tags) Len() int {
	return len(t.order)
}

// Clone returns a deep copy safe for independent mutation.
func (t *Tags) Clone() *Tags {
	clone := NewTags()
	for _, fold := range t.order {
		clone.Set(t.orig[fold], t.byKey[fold])
	}
	return clone
}
