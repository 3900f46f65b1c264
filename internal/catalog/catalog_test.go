package catalog

import (
	"testing"
	"time"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInsertAndList(t *testing.T) {
	c := newTestCatalog(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, profile := range []string{"laptop", "desktop", "laptop"} {
		_, err := c.Insert(Record{
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			Profile:        profile,
			Version:        "v1",
			ArchivePath:    "/tmp/a.tar.gz",
			SizeBytes:      1024,
			ComponentCount: 3,
			PackageCount:   42,
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, err := c.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Error("expected newest first")
	}

	laptops, err := c.List("laptop")
	if err != nil {
		t.Fatalf("List(laptop): %v", err)
	}
	if len(laptops) != 2 {
		t.Errorf("got %d laptop records, want 2", len(laptops))
	}
}

func TestLatest(t *testing.T) {
	c := newTestCatalog(t)

	if rec, err := c.Latest("laptop"); err != nil || rec != nil {
		t.Fatalf("Latest on empty = (%v, %v), want (nil, nil)", rec, err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, version := range []string{"old", "new"} {
		if _, err := c.Insert(Record{
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			Profile:     "laptop",
			Version:     version,
			ArchivePath: "/tmp/" + version + ".tar.gz",
		}); err != nil {
			t.Fatal(err)
		}
	}

	rec, err := c.Latest("laptop")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec == nil || rec.Version != "new" {
		t.Errorf("Latest = %+v, want version new", rec)
	}
}
