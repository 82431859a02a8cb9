package game

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	_ "golang.org/x/image/webp"

	"geoparty/pkg/geom"
)

const (
	MapsDir   = "maps"
	ScenesDir = "scenes"

	// MaxUploadBytes caps a single uploaded image.
	MaxUploadBytes = 25 << 20

	sizeWorkers = 4
)

var (
	ErrNoFile          = errors.New("no file selected")
	ErrUnsupportedType = errors.New("unsupported file type, use png/jpg/jpeg/webp")
	ErrBadImage        = errors.New("image file appears to be corrupted or invalid")
	ErrMissingImage    = errors.New("selected image is not available anymore")
)

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// AllowedExt reports whether name has an accepted image extension.
func AllowedExt(name string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}

// ImageEntry is one file in a library folder.
type ImageEntry struct {
	Filename string
	Size     geom.Size
	Bytes    int64
}

// HumanBytes is the file size for display.
func (e ImageEntry) HumanBytes() string {
	return humanize.Bytes(uint64(e.Bytes))
}

type cachedSize struct {
	mod  time.Time
	size geom.Size
}

// Library is a folder of uploaded images. Pixel sizes are cached by
// modification time.
type Library struct {
	dir string

	mu    sync.Mutex
	cache map[string]cachedSize
}

// OpenLibrary creates dir if needed.
func OpenLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library %s: %w", dir, err)
	}
	return &Library{dir: dir, cache: make(map[string]cachedSize)}, nil
}

// Dir returns the folder on disk.
func (l *Library) Dir() string { return l.dir }

// Path returns the on-disk path of a library file. name is reduced to its base.
func (l *Library) Path(name string) string {
	return filepath.Join(l.dir, filepath.Base(name))
}

// Size decodes just the header of name to get its pixel size.
func (l *Library) Size(name string) (geom.Size, error) {
	path := l.Path(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return geom.Size{}, ErrMissingImage
	}
	l.mu.Lock()
	c, ok := l.cache[path]
	l.mu.Unlock()
	if ok && c.mod.Equal(info.ModTime()) {
		return c.size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return geom.Size{}, ErrMissingImage
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return geom.Size{}, ErrBadImage
	}
	size := geom.Sz(float64(cfg.Width), float64(cfg.Height))

	l.mu.Lock()
	l.cache[path] = cachedSize{mod: info.ModTime(), size: size}
	l.mu.Unlock()
	return size, nil
}

// List returns the readable images in the folder sorted by name. Files that
// fail to decode are left out.
func (l *Library) List() ([]ImageEntry, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []ImageEntry
	)
	swg := sizedwaitgroup.New(sizeWorkers)
	for _, de := range dirEntries {
		if de.IsDir() || !AllowedExt(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		swg.Add()
		go func(name string, n int64) {
			defer swg.Done()
			size, err := l.Size(name)
			if err != nil {
				return
			}
			mu.Lock()
			entries = append(entries, ImageEntry{Filename: name, Size: size, Bytes: n})
			mu.Unlock()
		}(de.Name(), info.Size())
	}
	swg.Wait()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries, nil
}

// Save copies r into the folder under a cleaned version of filename,
// appending (n) on collisions, and returns the stored name.
func (l *Library) Save(filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrNoFile
	}
	if !AllowedExt(filename) {
		return "", ErrUnsupportedType
	}
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	stem := cleanStem(strings.TrimSuffix(base, filepath.Ext(base)))

	candidate := stem + ext
	for n := 1; ; n++ {
		f, err := os.OpenFile(filepath.Join(l.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			candidate = fmt.Sprintf("%s(%d)%s", stem, n, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save upload: %w", err)
		}
		_, err = io.Copy(f, io.LimitReader(r, MaxUploadBytes))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("save upload: %w", err)
		}
		return candidate, nil
	}
}

func cleanStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
