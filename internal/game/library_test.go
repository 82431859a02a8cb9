package game

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLibrary_SaveCleansAndDedupes(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data := pngBytes(t, 20, 10)

	name, err := lib.Save("my map!.PNG", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if name != "my_map_.png" {
		t.Errorf("got %q, want my_map_.png", name)
	}
	again, err := lib.Save("my map!.png", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if again != "my_map_(1).png" {
		t.Errorf("got %q, want my_map_(1).png", again)
	}

	size, err := lib.Size(name)
	if err != nil {
		t.Fatal(err)
	}
	if size.W != 20 || size.H != 10 {
		t.Errorf("got %v, want 20x10", size)
	}
}

func TestLibrary_SaveRejects(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Save("", strings.NewReader("x")); !errors.Is(err, ErrNoFile) {
		t.Errorf("empty name: got %v, want ErrNoFile", err)
	}
	if _, err := lib.Save("notes.txt", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("txt: got %v, want ErrUnsupportedType", err)
	}
}

func TestLibrary_SizeErrors(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Size("gone.png"); !errors.Is(err, ErrMissingImage) {
		t.Errorf("missing: got %v, want ErrMissingImage", err)
	}
	if err := os.WriteFile(lib.Path("broken.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Size("broken.png"); !errors.Is(err, ErrBadImage) {
		t.Errorf("broken: got %v, want ErrBadImage", err)
	}
}

func TestLibrary_ListSkipsUnreadable(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.png", "a.png"} {
		if _, err := lib.Save(name, bytes.NewReader(pngBytes(t, 4, 3))); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(lib.Path("broken.png"), []byte("nope"), 0o644)
	os.WriteFile(lib.Path("readme.txt"), []byte("hi"), 0o644)

	entries, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Filename != "a.png" || entries[1].Filename != "b.png" {
		t.Errorf("got %s, %s, want a.png, b.png", entries[0].Filename, entries[1].Filename)
	}
	if entries[0].HumanBytes() == "" {
		t.Error("HumanBytes is empty")
	}
}

func TestAllowedExt(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png": true, "a.JPG": true, "a.jpeg": true, "a.webp": true, "a.gif": false, "png": false,
	} {
		if got := AllowedExt(name); got != want {
			t.Errorf("AllowedExt(%q) = %v, want %v", name, got, want)
		}
	}
}
