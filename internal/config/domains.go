package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Domains is an insertion-ordered map of domain name to Domain. The order
// domains appear in config.json is the order the topology builder visits
// them, so it must survive a load/store round trip.
type Domains struct {
	names  []string
	byName map[string]*Domain
}

// Names returns the domain names in insertion order. The returned slice
// must not be mutated.
func (d *Domains) Names() []string {
	return d.names
}

// Len returns the number of domains.
func (d *Domains) Len() int {
	return len(d.names)
}

// Get returns the named domain, or nil, false if absent.
func (d *Domains) Get(name string) (*Domain, bool) {
	dom, ok := d.byName[name]
	return dom, ok
}

// Set adds or replaces a domain. New names are appended to the order.
func (d *Domains) Set(name string, dom *Domain) {
	if d.byName == nil {
		d.byName = map[string]*Domain{}
	}
	if _, exists := d.byName[name]; !exists {
		d.names = append(d.names, name)
	}
	d.byName[name] = dom
}

// Delete removes a domain, preserving the order of the remaining ones.
func (d *Domains) Delete(name string) {
	if _, exists := d.byName[name]; !exists {
		return
	}
	delete(d.byName, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
}

// MarshalJSON emits the domains as a JSON object in insertion order.
func (d Domains) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording key order.
func (d *Domains) UnmarshalJSON(data []byte) error {
	d.names = nil
	d.byName = map[string]*Domain{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("domains: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("domains: expected string key, got %v", keyTok)
		}

		var dom Domain
		if err := dec.Decode(&dom); err != nil {
			return fmt.Errorf("domains: decoding %q: %w", name, err)
		}
		d.Set(name, &dom)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
