package feature

// PhoneSet resolves phone names for KindPhone meta features. It is the
// boundary to the language's phoneme table, which lives outside this module.
type PhoneSet interface {
	PhoneID(name string) (int, bool)
	PhoneName(id int) (string, bool)
}

// StaticPhoneSet is a PhoneSet backed by a fixed list of names. The id of a
// phone is its position in the list.
type StaticPhoneSet struct {
	ids   map[string]int
	names []string
}

// NewStaticPhoneSet creates a phone set from names in id order.
func NewStaticPhoneSet(names ...string) *StaticPhoneSet {
	ids := make(map[string]int, len(names))
	for i, n := range names {
		ids[n] = i
	}
	return &StaticPhoneSet{ids: ids, names: append([]string(nil), names...)}
}

// PhoneID implements PhoneSet.
func (p *StaticPhoneSet) PhoneID(name string) (int, bool) {
	id, ok := p.ids[name]
	return id, ok
}

// PhoneName implements PhoneSet.
func (p *StaticPhoneSet) PhoneName(id int) (string, bool) {
	if id < 0 || id >= len(p.names) {
		return "", false
	}
	return p.names[id], true
}
