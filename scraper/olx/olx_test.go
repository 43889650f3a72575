package olx

import (
	"io"
	"os"
	"slices"
	"testing"

	"housing-agent/models"
	"housing-agent/utils"
)

func TestExtractSearchPage(t *testing.T) {
	page, err := os.ReadFile("testdata/search.html")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	e := New("", nil, utils.NewLoggerTo(io.Discard, io.Discard))
	seq, err := e.Extract(string(page))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := slices.Collect(seq)

	if len(got) != 3 {
		t.Fatalf("got %d listings, want 3: %+v", len(got), got)
	}

	first := got[0]
	if first.Source != models.SourceOLX {
		t.Errorf("source = %q", first.Source)
	}
	if first.Title != "Apartament 3 camere Titan, 2 bai, bloc 2015" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://www.olx.ro/d/oferta/apartament-3-camere-titan-IDj1abc.html" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Price != "285 000 € Negociabil" {
		t.Errorf("price = %q", first.Price)
	}
	if first.Area != "Bucuresti, Sectorul 3 - Reactualizat azi la 10:15" {
		t.Errorf("area = %q", first.Area)
	}
	if first.Size != "78 m²" {
		t.Errorf("size = %q", first.Size)
	}

	second := got[1]
	if second.Title != "Garsoniera Obor" || second.Price != "310 000 lei" {
		t.Errorf("second listing = %+v", second)
	}
	if second.Area != "" {
		t.Errorf("missing location should stay empty, got %q", second.Area)
	}

	badged := got[2]
	if badged.Title != "Apartament 4 camere Dristor" {
		t.Errorf("short badge should fall through to the real title, got %q", badged.Title)
	}
	if badged.URL != "https://www.olx.ro/d/oferta/apartament-4-camere-dristor-IDj4ghi.html" {
		t.Errorf("badged url = %q", badged.URL)
	}
}
