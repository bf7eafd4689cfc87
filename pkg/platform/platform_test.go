package platform

import (
	"errors"
	"testing"
)

func TestDatabaseBuiltins(t *testing.T) {
	db := NewDatabase()
	name, ok := db.Get("0240")
	if !ok || name != "K64F" {
		t.Fatalf("Get(0240) = %q, %v; want K64F", name, ok)
	}
	if db.Len() < 150 {
		t.Fatalf("expected built-in table, got %d entries", db.Len())
	}
	if _, ok := db.Get("ABCD"); ok {
		t.Fatalf("unexpected entry for ABCD")
	}
}

func TestDatabaseAddGetRemove(t *testing.T) {
	db := NewDatabase()
	for _, prefix := range []string{"ABCD", "abcd", "0000", "fFfF", "9a9A"} {
		if err := db.Add(prefix, "TEST_BOARD"); err != nil {
			t.Fatalf("Add(%q) returned error: %v", prefix, err)
		}
		if name, ok := db.Get(prefix); !ok || name != "TEST_BOARD" {
			t.Fatalf("Get(%q) = %q, %v after Add", prefix, name, ok)
		}
		if name, ok := db.Remove(prefix); !ok || name != "TEST_BOARD" {
			t.Fatalf("Remove(%q) = %q, %v", prefix, name, ok)
		}
		if _, ok := db.Get(prefix); ok {
			t.Fatalf("Get(%q) still resolves after Remove", prefix)
		}
	}
}

func TestDatabaseAddInvalidPrefix(t *testing.T) {
	db := NewDatabase()
	before := db.All()
	for _, prefix := range []string{"", "123", "12345", "GHIJ", "12 4", "RIOT", "0x12"} {
		err := db.Add(prefix, "BAD")
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("Add(%q) error = %v, want ErrInvalidIdentifier", prefix, err)
		}
		var invalid *InvalidIdentifierError
		if !errors.As(err, &invalid) || invalid.Prefix != prefix {
			t.Fatalf("Add(%q) error does not carry prefix: %v", prefix, err)
		}
	}
	after := db.All()
	if len(before) != len(after) {
		t.Fatalf("table size changed from %d to %d", len(before), len(after))
	}
	for prefix, name := range before {
		if after[prefix] != name {
			t.Fatalf("entry %s changed from %q to %q", prefix, name, after[prefix])
		}
	}
}

func TestDatabaseRemoveBuiltinAndRestore(t *testing.T) {
	db := NewDatabase()
	if _, ok := db.Remove("0240"); !ok {
		t.Fatalf("Remove(0240) did not find built-in entry")
	}
	if _, ok := db.Get("0240"); ok {
		t.Fatalf("built-in entry still present after Remove")
	}
	if name, ok := db.Remove("0240"); ok || name != "" {
		t.Fatalf("second Remove = %q, %v; want no-op", name, ok)
	}
	if err := db.Add("0240", "K64F"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if name, _ := db.Get("0240"); name != "K64F" {
		t.Fatalf("Get(0240) = %q after restore", name)
	}
	if other := NewDatabase(); other.Len() != db.Len() {
		t.Fatalf("removing from one database affected the built-in seed")
	}
}

func TestDatabaseAllIsSnapshot(t *testing.T) {
	db := NewDatabase()
	snapshot := db.All()
	snapshot["0240"] = "CHANGED"
	delete(snapshot, "0200")
	if name, _ := db.Get("0240"); name != "K64F" {
		t.Fatalf("mutating snapshot changed live table: %q", name)
	}
	if _, ok := db.Get("0200"); !ok {
		t.Fatalf("deleting from snapshot changed live table")
	}
}

func TestDatabaseReverseLookup(t *testing.T) {
	db := NewDatabase()
	prefix, ok := db.Prefix("K64F")
	if !ok || prefix != "0240" {
		t.Fatalf("Prefix(K64F) = %q, %v; want 0240", prefix, ok)
	}
	if _, ok := db.Prefix("NO_SUCH_BOARD"); ok {
		t.Fatalf("Prefix found a board that does not exist")
	}
	names := db.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names not sorted/unique at %d: %q, %q", i, names[i-1], names[i])
		}
	}
}

func TestPrefixOf(t *testing.T) {
	cases := map[string]string{
		"0240DEADBEEF": "0240",
		"024":          "024",
		"":             "",
	}
	for in, want := range cases {
		if got := PrefixOf(in); got != want {
			t.Fatalf("PrefixOf(%q) = %q, want %q", in, got, want)
		}
	}
}
