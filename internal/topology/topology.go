// Package topology builds and persists the domain -> workspace -> port
// mapping that every generated proxy and DNS artifact derives from.
package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// BasePort is the first port handed out by the allocator. Ports increase
// by one for every (domain, workspace) pair in visit order.
const BasePort = 50100

// ErrPortNotAssigned is returned when a workspace has no entry in the
// persisted topology. The operator needs to run `darp deploy`.
var ErrPortNotAssigned = errors.New("port not yet assigned")

// Topology is the full port assignment. Domain and workspace order is the
// order they were visited during the build and is preserved through a
// save/load round trip.
//
// The topology is regenerated from scratch on every build; a workspace's
// port is only valid until the next rebuild. Consumers must look ports up
// here, never cache them.
type Topology struct {
	domainNames []string
	domains     map[string]*domainPorts
}

type domainPorts struct {
	workspaceNames []string
	ports          map[string]int
}

// AddDomain registers a domain with no workspaces yet. Called for every
// configured domain so empty domains still appear in the portmap.
func (t *Topology) AddDomain(domain string) {
	if t.domains == nil {
		t.domains = map[string]*domainPorts{}
	}
	if _, ok := t.domains[domain]; ok {
		return
	}
	t.domainNames = append(t.domainNames, domain)
	t.domains[domain] = &domainPorts{ports: map[string]int{}}
}

// Assign records a workspace's port under a domain.
func (t *Topology) Assign(domain, workspace string, port int) {
	t.AddDomain(domain)
	dp := t.domains[domain]
	if _, ok := dp.ports[workspace]; !ok {
		dp.workspaceNames = append(dp.workspaceNames, workspace)
	}
	dp.ports[workspace] = port
}

// Domains returns the domain names in build order.
func (t *Topology) Domains() []string {
	return t.domainNames
}

// Workspaces returns a domain's workspace names in build order.
func (t *Topology) Workspaces(domain string) []string {
	dp, ok := t.domains[domain]
	if !ok {
		return nil
	}
	return dp.workspaceNames
}

// Port looks up the port assigned to (domain, workspace).
func (t *Topology) Port(domain, workspace string) (int, error) {
	dp, ok := t.domains[domain]
	if !ok {
		return 0, fmt.Errorf("%s/%s: %w", domain, workspace, ErrPortNotAssigned)
	}
	port, ok := dp.ports[workspace]
	if !ok {
		return 0, fmt.Errorf("%s/%s: %w", domain, workspace, ErrPortNotAssigned)
	}
	return port, nil
}

// Empty reports whether no workspace has a port assigned.
func (t *Topology) Empty() bool {
	for _, dp := range t.domains {
		if len(dp.workspaceNames) > 0 {
			return false
		}
	}
	return true
}

// MarshalJSON emits `{domain: {workspace: port}}` preserving build order.
func (t Topology) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, domain := range t.domainNames {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, domain)
		buf.WriteByte('{')
		dp := t.domains[domain]
		for j, ws := range dp.workspaceNames {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, ws)
			fmt.Fprintf(&buf, "%d", dp.ports[ws])
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes `{domain: {workspace: port}}`, recording key order.
func (t *Topology) UnmarshalJSON(data []byte) error {
	t.domainNames = nil
	t.domains = map[string]*domainPorts{}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("portmap: %w", err)
	}

	for dec.More() {
		domain, err := stringToken(dec)
		if err != nil {
			return fmt.Errorf("portmap: %w", err)
		}
		t.AddDomain(domain)

		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("portmap %q: %w", domain, err)
		}
		for dec.More() {
			workspace, err := stringToken(dec)
			if err != nil {
				return fmt.Errorf("portmap %q: %w", domain, err)
			}
			var port int
			if err := dec.Decode(&port); err != nil {
				return fmt.Errorf("portmap %q/%q: %w", domain, workspace, err)
			}
			t.Assign(domain, workspace, port)
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
	}

	_, err := dec.Token()
	return err
}

func writeKey(buf *bytes.Buffer, key string) {
	data, _ := json.Marshal(key)
	buf.Write(data)
	buf.WriteByte(':')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %v", tok)
	}
	return s, nil
}
