package diag

import (
	"testing"

	"scriptkit/internal/source"
)

func TestBagLimitAndFirstError(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SynInfo, source.SpanOf(0, 1), "warn").Emit()
	ReportError(r, SynUnexpectedToken, source.SpanOf(4, 5), "boom").WithNote(source.SpanOf(0, 1), "here").Emit()
	ReportError(r, SynUnexpectedToken, source.SpanOf(6, 7), "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
	d, ok := bag.FirstError()
	if !ok || d.Message != "boom" || len(d.Notes) != 1 {
		t.Fatalf("FirstError = %+v, %v", d, ok)
	}
}

func TestBagSortDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevError, SynUnexpectedToken, source.SpanOf(5, 6), "b"))
	bag.Add(New(SevError, SynUnexpectedToken, source.SpanOf(1, 2), "a"))
	bag.Add(New(SevError, SynUnexpectedToken, source.SpanOf(1, 2), "a again"))
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 2 || items[0].Message != "a" || items[1].Message != "b" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCodeID(t *testing.T) {
	if got := SynUnexpectedToken.ID(); got != "SYN2001" {
		t.Fatalf("ID = %q", got)
	}
	if got := LexBadNumber.String(); got != "[LEX1004]: Invalid numeric literal" {
		t.Fatalf("String = %q", got)
	}
}
