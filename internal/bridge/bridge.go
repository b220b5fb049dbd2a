// Package bridge reads the positioned page content produced by the upstream
// extraction step.
package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/models"
)

var Logger = logger.GetLogger("bridge")

var ErrNoPages = errors.New("no pages in input")

// PageSize is applied to pages that arrive without a usable extent.
type PageSize struct{ Width, Height float32 }

type document struct {
	Pages []*models.Page `json:"pages"`
}

// Decode reads a {"pages": [...]} document.
func Decode(r io.Reader, fallback PageSize) ([]*models.Page, error) {
	var doc document
	dec := json.NewDecoder(bufio.NewReaderSize(r, 256*1024))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	for i, p := range doc.Pages {
		if p == nil {
			return nil, fmt.Errorf("page %d: null page", i)
		}
		normalize(p, i+1, fallback)
	}
	Logger.Debug("decoded document", "pages", len(doc.Pages))
	return doc.Pages, nil
}

// ReadDocument loads pages from a JSON document, or from a directory holding
// one page_<n>.json file per page.
func ReadDocument(path string, fallback PageSize) ([]*models.Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return readPageDir(path, fallback)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	pages, err := Decode(f, fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pages, nil
}

func readPageDir(dir string, fallback PageSize) ([]*models.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read page dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "page_") && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPages)
	}
	sort.Slice(files, func(i, j int) bool { return pageNum(files[i]) < pageNum(files[j]) })

	pages := make([]*models.Page, 0, len(files))
	for _, name := range files {
		p, err := readPage(name)
		if err != nil {
			return nil, err
		}
		normalize(p, pageNum(name), fallback)
		pages = append(pages, p)
	}
	Logger.Debug("read page directory", "dir", dir, "pages", len(pages))
	return pages, nil
}

func readPage(name string) (*models.Page, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	var p models.Page
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return &p, nil
}

func normalize(p *models.Page, number int, fallback PageSize) {
	if p.Number == 0 {
		p.Number = number
	}
	if p.Width <= 0 || p.Height <= 0 {
		Logger.Warn("page without extent, using default size", "page", p.Number, "width", fallback.Width, "height", fallback.Height)
		p.Width, p.Height = fallback.Width, fallback.Height
	}
}

func pageNum(filename string) int {
	base := filepath.Base(filename)
	base = strings.TrimPrefix(base, "page_")
	base = strings.TrimSuffix(base, ".json")
	num, _ := strconv.Atoi(base)
	return num
}
