package league

import (
	"context"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	items, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 26 {
		t.Fatalf("unexpected league count: %d", len(items))
	}

	tests := map[string]int64{
		"epl":        39,
		"LALIGA":     140,
		" ucl ":      2,
		"ve_primera": 297,
	}
	for key, wantID := range tests {
		item, ok, err := catalog.GetByKey(context.Background(), key)
		if err != nil || !ok {
			t.Fatalf("GetByKey(%q): ok=%v err=%v", key, ok, err)
		}
		if item.ID != wantID {
			t.Fatalf("GetByKey(%q) id=%d want %d", key, item.ID, wantID)
		}
	}

	if _, ok, _ := catalog.GetByKey(context.Background(), "mls"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

func TestParseCatalog_RejectsBadEntries(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"duplicate": "leagues:\n  - {key: epl, id: 39, name: Premier League}\n  - {key: EPL, id: 40, name: Other}\n",
		"no id":     "leagues:\n  - {key: epl, name: Premier League}\n",
		"bad yaml":  "leagues: [",
	}
	for name, raw := range cases {
		if _, err := ParseCatalog([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLeague_Label(t *testing.T) {
	t.Parallel()

	if got := (League{Name: "Premier League", Country: "England"}).Label(); got != "England - Premier League" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := (League{Name: "UEFA Champions League"}).Label(); got != "UEFA Champions League" {
		t.Fatalf("unexpected label %q", got)
	}
}
