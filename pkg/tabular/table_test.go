package tabular_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mockgen/pkg/tabular"
)

func sampleTable(t *testing.T) *tabular.Table {
	t.Helper()
	table, err := tabular.New(
		tabular.Column{Name: "age", Values: []any{int64(34), int64(61)}},
		tabular.Column{Name: "income", Values: []any{52013.4567, 101.5}},
		tabular.Column{Name: "joined", Values: []any{
			time.Date(2020, 12, 21, 13, 45, 12, 0, time.UTC),
			time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
		tabular.Column{Name: "note", Values: []any{"hello, world", ""}},
	)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return table
}

func TestTable_Accessors(t *testing.T) {
	table := sampleTable(t)

	if diff := cmp.Diff([]string{"age", "income", "joined", "note"}, table.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if table.Len() != 2 || table.Width() != 4 {
		t.Fatalf("unexpected shape %dx%d", table.Len(), table.Width())
	}
	ages, ok := table.Column("age")
	if !ok {
		t.Fatalf("expected age column")
	}
	if diff := cmp.Diff([]any{int64(34), int64(61)}, ages); diff != "" {
		t.Fatalf("age mismatch (-want +got):\n%s", diff)
	}
	if _, ok := table.Column("missing"); ok {
		t.Fatalf("unexpected column")
	}
	if got := table.Rows()[1][0]; got != int64(61) {
		t.Fatalf("unexpected cell %v", got)
	}
	if head := table.Head(1); head.Len() != 1 || head.Width() != 4 {
		t.Fatalf("unexpected head shape %dx%d", head.Len(), head.Width())
	}
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	values := []any{"a", "b"}
	table := tabular.MustNew(tabular.Column{Name: "letter", Values: values})

	values[0] = "changed"
	got, _ := table.Column("letter")
	got[1] = "changed"

	again, _ := table.Column("letter")
	if diff := cmp.Diff([]any{"a", "b"}, again); diff != "" {
		t.Fatalf("table was mutated (-want +got):\n%s", diff)
	}
}

func TestNew_ShapeErrors(t *testing.T) {
	cases := map[string][]tabular.Column{
		"ragged":    {{Name: "a", Values: []any{1}}, {Name: "b", Values: []any{1, 2}}},
		"duplicate": {{Name: "a"}, {Name: "a"}},
		"unnamed":   {{Name: " "}},
	}
	for name, columns := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tabular.New(columns...); !errors.Is(err, tabular.ErrShape) {
				t.Fatalf("expected ErrShape, got %v", err)
			}
		})
	}
}

func TestWriteCSV_DefaultFormatting(t *testing.T) {
	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, sampleTable(t)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := strings.Join([]string{
		"age,income,joined,note",
		`34,52013.4567,2020-12-21 13:45:12,"hello, world"`,
		"61,101.5,2021-01-02 03:04:05,",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_Options(t *testing.T) {
	var buf bytes.Buffer
	err := tabular.WriteCSV(&buf, sampleTable(t),
		tabular.WithDelimiter(';'),
		tabular.WithIndex(true),
		tabular.WithFormat(
			tabular.WithFloatPrecision(2),
			tabular.WithTimeFormat("%d/%m/%Y"),
		),
	)
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := strings.Join([]string{
		";age;income;joined;note",
		"0;34;52013.46;21/12/2020;hello, world",
		"1;61;101.50;02/01/2021;",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_WithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	table := tabular.MustNew(
		tabular.Column{Name: "x", Values: []any{true, nil}},
		tabular.Column{Name: "y", Values: []any{"a", "b"}},
	)
	if err := tabular.WriteCSV(&buf, table, tabular.WithHeader(false)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if diff := cmp.Diff("true,a\n,b\n", buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_InvalidTimeFormat(t *testing.T) {
	if _, err := sampleTable(t).Records(tabular.WithTimeFormat("%Q")); err == nil {
		t.Fatalf("expected invalid strftime pattern to fail")
	}
}

func TestWritePreview(t *testing.T) {
	var buf bytes.Buffer
	if err := tabular.WritePreview(&buf, sampleTable(t), tabular.WithFloatPrecision(1)); err != nil {
		t.Fatalf("write preview: %v", err)
	}
	out := buf.String()
	for _, fragment := range []string{"age", "income", "52013.5", "hello, world"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("preview missing %q:\n%s", fragment, out)
		}
	}
}
