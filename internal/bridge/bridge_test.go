package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/layoutflow/layoutflow/internal/models"
)

var a4 = PageSize{Width: 595, Height: 842}

const samplePage = `{
  "number": 3,
  "width": 600,
  "height": 800,
  "elements": [
    {"kind": "text", "left": 50, "top": 100, "width": 200, "height": 12, "text": "Hello", "font_size": 10, "bold": true, "group": {"kind": "text", "index": 0}},
    {"kind": "image", "left": 50, "top": 120, "width": 100, "height": 80},
    {"kind": "hrule", "left": 50, "top": 210, "stretch": 400},
    {"kind": "cell", "left": 50, "top": 300, "width": 80, "height": 10, "text": "a", "group": {"kind": "table", "index": 0}}
  ],
  "text_groups": [{"elements": [0]}],
  "tables": [{"rows": 1, "cols": 1, "grid": [[0]], "cells": [{"elements": [3], "borders": {"top": true}}]}]
}`

func TestDecode(t *testing.T) {
	pages, err := Decode(strings.NewReader(`{"pages": [`+samplePage+`]}`), a4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	p := pages[0]
	if p.Number != 3 || p.Width != 600 || len(p.Elements) != 4 {
		t.Errorf("page = %d %vx%v with %d elements", p.Number, p.Width, p.Height, len(p.Elements))
	}
	hello := p.Element(0)
	if hello.Text() != "Hello" || !hello.Bold() || hello.FontSize() != 10 || hello.Group.Kind != models.GroupText {
		t.Errorf("element 0 decoded as %+v", hello)
	}
	if img := p.Element(1); img.Text() != "" || img.Italic() {
		t.Error("image should report no text and no style")
	}
	if rule := p.Element(2); rule.Width() != 400 || rule.Height() != 0 {
		t.Errorf("hrule extent = %vx%v, want 400x0", rule.Width(), rule.Height())
	}
	if !p.Tables[0].Cells[0].Borders.Top || p.Tables[0].CellAt(0, 0) != 0 {
		t.Error("table cell not decoded")
	}
}

func TestDecodeDefaults(t *testing.T) {
	pages, err := Decode(strings.NewReader(`{"pages": [{"elements": []}, {"width": 300, "height": 400}]}`), a4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pages[0].Number != 1 || pages[0].Width != 595 || pages[0].Height != 842 {
		t.Errorf("page 1 = %+v, want default size", pages[0])
	}
	if pages[1].Number != 2 || pages[1].Width != 300 {
		t.Errorf("page 2 = %+v", pages[1])
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"pages": []}`), a4); !errors.Is(err, ErrNoPages) {
		t.Errorf("empty document: err = %v, want ErrNoPages", err)
	}
	if _, err := Decode(strings.NewReader(`{"pages": [`), a4); err == nil {
		t.Error("truncated document: expected error")
	}
}

func TestReadDocumentDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"page_10.json": `{"width": 600, "height": 800}`,
		"page_2.json":  `{"width": 600, "height": 800}`,
		"notes.txt":    `ignored`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	pages, err := ReadDocument(dir, a4)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if len(pages) != 2 || pages[0].Number != 2 || pages[1].Number != 10 {
		t.Errorf("pages out of order: %d pages", len(pages))
	}
}

func TestReadDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"pages": [`+samplePage+`]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	pages, err := ReadDocument(path, a4)
	if err != nil || len(pages) != 1 {
		t.Fatalf("ReadDocument = %d pages, %v", len(pages), err)
	}
	if _, err := ReadDocument(filepath.Join(t.TempDir(), "missing.json"), a4); err == nil {
		t.Error("missing file: expected error")
	}
}
