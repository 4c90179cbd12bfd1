package reporting

import (
	"testing"

	"github.com/agence-consultoria/bgreport/pkg/layout"
)

func TestFooterStamp(t *testing.T) {
	r := &recorder{}
	f := Footer{Notice: "CONFIDENCIAL", LogoSmall: "logo.png", IssuedAt: testNow}

	f.Stamp(r, 2, 5)
	r.ShowPage()

	want := []string{"Página 2 de 5", "CONFIDENCIAL", "Emitido em: 16/10/2026"}
	for _, text := range want {
		if r.count(0, text) != 1 {
			t.Errorf("missing %q in %v", text, r.pages[0])
		}
	}
	if r.lines != 1 {
		t.Errorf("expected one separator rule, got %d", r.lines)
	}
	if len(r.images) != 1 || r.images[0] != "logo.png" {
		t.Errorf("expected the small logo, got %v", r.images)
	}
}

func TestFooterStampThroughOverlay(t *testing.T) {
	r := &recorder{}
	f := Footer{Notice: "CONFIDENCIAL", IssuedAt: testNow}
	n := layout.NewNumberedCanvas(r, f.Stamp)

	for i := 0; i < 3; i++ {
		n.Text(10, 10, "conteúdo", layout.AlignLeft)
		n.ShowPage()
	}
	if err := n.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(r.pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(r.pages))
	}
	for i, page := range r.pages {
		label := PageLabel(i+1, 3)
		if page[0] != "conteúdo" {
			t.Errorf("page %d: content must come before the footer, got %v", i+1, page)
		}
		if r.count(i, label) != 1 {
			t.Errorf("page %d: missing %q", i+1, label)
		}
	}
}
