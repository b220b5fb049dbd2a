package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(tableVerdicts.WithLabelValues("keep"))
	IncTableVerdict("keep")
	if got := testutil.ToFloat64(tableVerdicts.WithLabelValues("keep")); got != before+1 {
		t.Errorf("table_verdicts_total{keep} = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(mergesTotal.WithLabelValues("single_column"))
	AddMerges("single_column", 3)
	if got := testutil.ToFloat64(mergesTotal.WithLabelValues("single_column")); got != before+3 {
		t.Errorf("merges_total = %v, want %v", got, before+3)
	}
}

func TestWriteTextfile(t *testing.T) {
	ObservePage("multi_column", 2*time.Millisecond)
	AddEntities("paragraph", 4)

	path := filepath.Join(t.TempDir(), "layoutflow.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{
		`layoutflow_pages_processed_total{layout="multi_column"}`,
		`layoutflow_entities_total{type="paragraph"}`,
		"layoutflow_page_duration_seconds_bucket",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %s", want)
		}
	}
}
