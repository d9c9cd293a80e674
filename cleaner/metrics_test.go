package cleaner

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// parseFirst parses a fragment and returns the first element with the
// given tag name.
func parseFirst(t *testing.T, rawHTML, tag string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	n := findElement(doc, tag)
	if n == nil {
		t.Fatalf("no <%s> element in %q", tag, rawHTML)
	}
	return n
}

func TestComputeMetrics_BasicElement(t *testing.T) {
	n := parseFirst(t, `<p class="Intro" id="Lead">Hello world</p>`, "p")
	m := ComputeMetrics(n)

	if m.TagName != "p" {
		t.Errorf("TagName = %q, want %q", m.TagName, "p")
	}
	if m.Text != "Hello world" {
		t.Errorf("Text = %q, want %q", m.Text, "Hello world")
	}
	if m.TextLength != len("Hello world") {
		t.Errorf("TextLength = %d, want %d", m.TextLength, len("Hello world"))
	}
	if m.ClassID != "intro lead" {
		t.Errorf("ClassID = %q, want %q", m.ClassID, "intro lead")
	}
	if m.TagLength == 0 {
		t.Error("TagLength should be non-zero")
	}
}

func TestComputeMetrics_LinkText(t *testing.T) {
	n := parseFirst(t, `<div><a href="/x">Link text</a> and prose</div>`, "div")
	m := ComputeMetrics(n)

	if m.Text != "Link text and prose" {
		t.Errorf("Text = %q", m.Text)
	}
	if m.LinkTextLength != len("Link text") {
		t.Errorf("LinkTextLength = %d, want %d", m.LinkTextLength, len("Link text"))
	}
}

func TestTextDensity(t *testing.T) {
	tests := []struct {
		name string
		m    ContentMetrics
		want float64
	}{
		{"zero markup", ContentMetrics{TextLength: 10, TagLength: 0}, 0},
		{"half text", ContentMetrics{TextLength: 50, TagLength: 100}, 0.5},
		{"all text", ContentMetrics{TextLength: 100, TagLength: 100}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TextDensity(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TextDensity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinkDensity(t *testing.T) {
	tests := []struct {
		name string
		m    ContentMetrics
		want float64
	}{
		{"no text counts as link", ContentMetrics{TextLength: 0}, 1},
		{"half links", ContentMetrics{TextLength: 100, LinkTextLength: 50}, 0.5},
		{"no links", ContentMetrics{TextLength: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.LinkDensity(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LinkDensity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "one", 1},
		{"irregular spacing", "hello   world\tagain", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ContentMetrics{Text: tt.text}
			if got := m.WordCount(); got != tt.want {
				t.Errorf("WordCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
