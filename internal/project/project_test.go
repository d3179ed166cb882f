package project

import (
	"testing"
)

func newTestProject() *Project {
	p := &Project{}
	p.AddTake(&Take{ID: "a", WAVFilename: "a.wav"})
	p.AddTake(&Take{ID: "b", WAVFilename: "b.wav"})
	p.AddTake(&Take{ID: "c", WAVFilename: "c.wav"})
	return p
}

func TestGetTake(t *testing.T) {
	p := newTestProject()
	if got := p.GetTake("b"); got == nil || got.WAVFilename != "b.wav" {
		t.Fatalf("GetTake(b) = %+v", got)
	}
	if p.GetTake("nope") != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestUpdateTakeMemoAndFavorite(t *testing.T) {
	p := newTestProject()
	if !p.UpdateTakeMemo("a", "good energy") {
		t.Fatal("memo update failed")
	}
	if p.GetTake("a").Memo != "good energy" {
		t.Fatal("memo not applied")
	}
	if !p.UpdateTakeFavorite("a", true) {
		t.Fatal("favorite update failed")
	}
	if !p.GetTake("a").Favorite {
		t.Fatal("favorite not applied")
	}
	if p.UpdateTakeMemo("zz", "x") || p.UpdateTakeFavorite("zz", true) {
		t.Fatal("updates on unknown id must fail")
	}
}

func TestAdoptedInvariant(t *testing.T) {
	p := newTestProject()
	if !p.UpdateTakeAdopted("b", true) {
		t.Fatal("adopt failed")
	}
	if got := p.AdoptedTake(); got == nil || got.ID != "b" {
		t.Fatalf("adopted = %+v", got)
	}

	// Adopting another take clears the previous one.
	if !p.UpdateTakeAdopted("c", true) {
		t.Fatal("adopt failed")
	}
	adopted := 0
	for _, take := range p.Takes {
		if take.Adopted {
			adopted++
		}
	}
	if adopted != 1 {
		t.Fatalf("expected exactly one adopted take, got %d", adopted)
	}
	if p.AdoptedTake().ID != "c" {
		t.Fatal("wrong take adopted")
	}

	// Clearing only touches the target.
	if !p.UpdateTakeAdopted("c", false) {
		t.Fatal("clear failed")
	}
	if p.AdoptedTake() != nil {
		t.Fatal("expected no adopted take")
	}

	if p.UpdateTakeAdopted("zz", true) {
		t.Fatal("adopt of unknown id must fail")
	}
}

func TestHasScript(t *testing.T) {
	p := &Project{}
	if p.HasScript() {
		t.Fatal("empty project should have no script")
	}
	p.SetScript("", "   \n\t")
	if p.HasScript() {
		t.Fatal("blank script should not count")
	}
	p.SetScript("/tmp/s.txt", "# Scene\nline")
	if !p.HasScript() {
		t.Fatal("expected script")
	}
}

func TestHasProjectDir(t *testing.T) {
	p := &Project{}
	if p.HasProjectDir() {
		t.Fatal("unbound project should report false")
	}
	p.Dir = "/path/that/does/not/exist"
	if p.HasProjectDir() {
		t.Fatal("missing dir should report false")
	}
	p.Dir = t.TempDir()
	if !p.HasProjectDir() {
		t.Fatal("existing dir should report true")
	}
}

func TestDisplayName(t *testing.T) {
	take := Take{WAVFilename: "scene_01.wav", CreatedAt: "2026-02-19T14:32:05"}
	if got := take.DisplayName(0); got != "Take 1  02/19 14:32" {
		t.Errorf("got %q", got)
	}
	if got := take.DisplayName(-1); got != "scene_01.wav" {
		t.Errorf("got %q", got)
	}
	noDate := Take{WAVFilename: "x.wav"}
	if got := noDate.DisplayName(2); got != "x.wav" {
		t.Errorf("got %q", got)
	}
}
