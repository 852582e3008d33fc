package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDomainsInsertionOrder(t *testing.T) {
	var d Domains
	d.Set("zeta", &Domain{Location: "/z"})
	d.Set("alpha", &Domain{Location: "/a"})
	d.Set("mid", &Domain{Location: "/m"})

	want := []string{"zeta", "alpha", "mid"}
	if got := d.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestDomainsSetReplacesWithoutReordering(t *testing.T) {
	var d Domains
	d.Set("a", &Domain{Location: "/old"})
	d.Set("b", &Domain{Location: "/b"})
	d.Set("a", &Domain{Location: "/new"})

	if got := d.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}
	dom, ok := d.Get("a")
	if !ok || dom.Location != "/new" {
		t.Errorf("Get(a) = %+v, %v, want location /new", dom, ok)
	}
}

func TestDomainsDelete(t *testing.T) {
	var d Domains
	d.Set("a", &Domain{})
	d.Set("b", &Domain{})
	d.Set("c", &Domain{})

	d.Delete("b")
	if got := d.Names(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Names() after delete = %v, want [a c]", got)
	}
	if _, ok := d.Get("b"); ok {
		t.Error("Get(b) still present after delete")
	}

	// Deleting an absent name is a no-op.
	d.Delete("nope")
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestDomainsJSONKeepsOrder(t *testing.T) {
	var d Domains
	d.Set("personal", &Domain{Location: "/home/me/personal"})
	d.Set("work", &Domain{Location: "/home/me/work"})
	d.Set("oss", &Domain{Location: "/home/me/oss"})

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Domains
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := []string{"personal", "work", "oss"}
	if got := back.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip order = %v, want %v", got, want)
	}
	dom, ok := back.Get("work")
	if !ok || dom.Location != "/home/me/work" {
		t.Errorf("Get(work) = %+v, %v", dom, ok)
	}
}

func TestDomainsUnmarshalRejectsNonObject(t *testing.T) {
	var d Domains
	if err := json.Unmarshal([]byte(`["a"]`), &d); err == nil {
		t.Error("expected error for JSON array")
	}
}
