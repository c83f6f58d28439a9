package inventory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"photosift/internal/inventory"
	"photosift/internal/testsupport"
)

func TestScanClassifiesAndOrders(t *testing.T) {
	root := testsupport.SeedMediaTree(t, map[string]string{
		"2023/IMG_001.JPG":  "aaa",
		"2023/clip.mov":     "bbb",
		"2024/IMG_002.heic": "ccc",
		"notes.txt":         "ddd",
		"sidecar.xmp":       "eee",
	})

	result, err := inventory.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Files) != 5 {
		t.Fatalf("expected 5 files, got %d", len(result.Files))
	}

	wantOrder := []string{
		filepath.Join("2023", "IMG_001.JPG"),
		filepath.Join("2023", "clip.mov"),
		filepath.Join("2024", "IMG_002.heic"),
		"notes.txt",
		"sidecar.xmp",
	}
	for i, want := range wantOrder {
		if result.Files[i].RelativePath != want {
			t.Fatalf("order mismatch at %d: got %s, want %s", i, result.Files[i].RelativePath, want)
		}
	}

	counts := result.CountByKind()
	if counts[inventory.KindPhoto] != 2 || counts[inventory.KindVideo] != 1 || counts[inventory.KindOther] != 2 {
		t.Fatalf("unexpected kind counts: %#v", counts)
	}
	if media := result.Media(); len(media) != 3 {
		t.Fatalf("expected 3 media files, got %d", len(media))
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := inventory.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, inventory.ErrScan) {
		t.Fatalf("expected ErrScan, got %v", err)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	root := testsupport.SeedMediaTree(t, map[string]string{
		"b.jpg": "2",
		"a.jpg": "1",
		"c.mov": "3",
	})

	first, err := inventory.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := inventory.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(first.Files) != len(second.Files) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first.Files), len(second.Files))
	}
	for i := range first.Files {
		if first.Files[i] != second.Files[i] {
			t.Fatalf("scan %d differs: %#v vs %#v", i, first.Files[i], second.Files[i])
		}
	}
}

func TestIdentityKeyNormalization(t *testing.T) {
	cases := []struct {
		a, b string
		same bool
	}{
		{"IMG_001.JPG", "img_001.jpg", true},
		{"holiday.jpg", "holiday.jpeg", true},
		{"clip.MOV", "clip.mov", true},
		{"a.jpg", "a.mov", false},
		{"a.jpg", "b.jpg", false},
		{"readme.TXT", "readme.txt", true},
		{"readme.txt", "readme.md", false},
	}
	for _, tc := range cases {
		keyA := inventory.IdentityKeyFor(tc.a)
		keyB := inventory.IdentityKeyFor(tc.b)
		if (keyA == keyB) != tc.same {
			t.Errorf("IdentityKeyFor(%q)=%q vs IdentityKeyFor(%q)=%q, want same=%v", tc.a, keyA, tc.b, keyB, tc.same)
		}
	}
}
