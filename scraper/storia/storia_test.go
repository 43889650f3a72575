package storia

import (
	"io"
	"os"
	"slices"
	"testing"

	"housing-agent/utils"
)

func TestExtractSearchPage(t *testing.T) {
	page, err := os.ReadFile("testdata/search.html")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	seq, err := New("", nil, utils.NewLoggerTo(io.Discard, io.Discard)).Extract(string(page))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := slices.Collect(seq)
	if len(got) != 2 {
		t.Fatalf("got %d listings, want 2: %+v", len(got), got)
	}

	tests := []struct {
		field, got, want string
	}{
		{"title", got[0].Title, "Apartament 4 camere Unirii, 2 bai, constructie 2012"},
		{"url", got[0].URL, "https://www.storia.ro/ro/oferta/apartament-4-camere-unirii-IDabc1"},
		{"price", got[0].Price, "335 000 €"},
		{"area", got[0].Area, "Bucuresti, Sectorul 3, Unirii"},
		{"size", got[0].Size, "110 m²"},
		{"rooms", got[0].Rooms, "4 camere"},
		{"second url", got[1].URL, "https://www.storia.ro/ro/oferta/casa-vila-pallady-IDabc2"},
		{"second price", got[1].Price, ""},
		{"second size", got[1].Size, ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
}
