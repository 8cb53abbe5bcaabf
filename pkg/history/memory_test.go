package history

import "testing"

func TestMemoryStackInitialEntry(t *testing.T) {
	s := NewMemoryStack("/home?tab=1#top", nil)

	loc := s.Location()
	if loc.Pathname != "/home" {
		t.Errorf("Pathname = %q, want %q", loc.Pathname, "/home")
	}
	if loc.Search != "?tab=1" {
		t.Errorf("Search = %q, want %q", loc.Search, "?tab=1")
	}
	if loc.Hash != "#top" {
		t.Errorf("Hash = %q, want %q", loc.Hash, "#top")
	}
	if loc.Key == "" {
		t.Error("initial entry has no key")
	}
	if s.Length() != 1 {
		t.Errorf("Length = %d, want 1", s.Length())
	}
}

func TestMemoryStackEmptyPathDefaultsToRoot(t *testing.T) {
	s := NewMemoryStack("", nil)
	if got := s.Location().Pathname; got != "/" {
		t.Errorf("Pathname = %q, want %q", got, "/")
	}
}

func TestMemoryStackPush(t *testing.T) {
	s := NewMemoryStack("/", nil)
	first := s.Location()

	s.Push("/about", map[string]any{"n": 1})

	loc := s.Location()
	if loc.Pathname != "/about" {
		t.Errorf("Pathname = %q, want %q", loc.Pathname, "/about")
	}
	if loc.Key == first.Key {
		t.Error("pushed entry reused the previous key")
	}
	if got := loc.StateValue("n"); got != 1 {
		t.Errorf("StateValue(n) = %v, want 1", got)
	}
	if s.Length() != 2 || s.Index() != 1 {
		t.Errorf("Length, Index = %d, %d, want 2, 1", s.Length(), s.Index())
	}
}

func TestMemoryStackPushDropsForwardEntries(t *testing.T) {
	s := NewMemoryStack("/", nil)
	s.Push("/a", nil)
	s.Push("/b", nil)
	s.Back()

	s.Push("/c", nil)

	if s.Length() != 3 {
		t.Fatalf("Length = %d, want 3", s.Length())
	}
	if got := s.Location().Pathname; got != "/c" {
		t.Errorf("Pathname = %q, want %q", got, "/c")
	}
	// The former forward entry is gone.
	s.Forward()
	if got := s.Location().Pathname; got != "/c" {
		t.Errorf("after forward, Pathname = %q, want %q", got, "/c")
	}
}

func TestMemoryStackReplace(t *testing.T) {
	s := NewMemoryStack("/", nil)
	s.Push("/a", nil)

	s.Replace("/b", nil)

	if s.Length() != 2 {
		t.Errorf("Length = %d, want 2", s.Length())
	}
	if got := s.Location().Pathname; got != "/b" {
		t.Errorf("Pathname = %q, want %q", got, "/b")
	}
	s.Back()
	if got := s.Location().Pathname; got != "/" {
		t.Errorf("after back, Pathname = %q, want %q", got, "/")
	}
}

func TestMemoryStackGoClampsOutOfRange(t *testing.T) {
	s := NewMemoryStack("/", nil)
	s.Push("/a", nil)

	var notified int
	s.Listen(func(Update) { notified++ })

	s.Go(-5)
	s.Go(3)
	s.Go(0)

	if notified != 0 {
		t.Errorf("out-of-range moves produced %d notifications, want 0", notified)
	}
	if got := s.Location().Pathname; got != "/a" {
		t.Errorf("Pathname = %q, want %q", got, "/a")
	}
}

func TestMemoryStackNotifications(t *testing.T) {
	s := NewMemoryStack("/", nil)

	var updates []Update
	detach := s.Listen(func(u Update) { updates = append(updates, u) })

	s.Push("/a", nil)
	s.Replace("/b", nil)
	s.Back()
	s.Forward()

	want := []Action{ActionPush, ActionReplace, ActionPop, ActionPop}
	if len(updates) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(updates), len(want))
	}
	for i, u := range updates {
		if u.Action != want[i] {
			t.Errorf("update %d action = %v, want %v", i, u.Action, want[i])
		}
	}
	if updates[2].Location.Pathname != "/" {
		t.Errorf("pop notified %q, want %q", updates[2].Location.Pathname, "/")
	}

	detach()
	detach() // idempotent
	s.Push("/c", nil)
	if len(updates) != len(want) {
		t.Error("detached listener still notified")
	}
}

func TestMemoryStackStateIsolation(t *testing.T) {
	state := map[string]any{"a": 1}
	s := NewMemoryStack("/", state)

	state["a"] = 2

	if got := s.Location().StateValue("a"); got != 1 {
		t.Errorf("StateValue(a) = %v, want 1 (caller mutation leaked in)", got)
	}
}

func TestMemoryStackPopRestoresEntryIdentity(t *testing.T) {
	s := NewMemoryStack("/", nil)
	s.Push("/a", map[string]any{"x": "y"})
	key := s.Location().Key

	s.Back()
	s.Forward()

	loc := s.Location()
	if loc.Key != key {
		t.Errorf("Key = %q, want %q", loc.Key, key)
	}
	if got := loc.StateValue("x"); got != "y" {
		t.Errorf("StateValue(x) = %v, want %q", got, "y")
	}
}
