package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRoundTripPreservesBytes(t *testing.T) {
	inputs := []string{
		"",
		"one line",
		"a\nb\n",
		"a\r\nb\r\n",
		"\n\n",
	}
	for _, in := range inputs {
		if got := Parse(in).String(); got != in {
			t.Fatalf("round trip changed %q into %q", in, got)
		}
	}
}

func TestHasAssetRef(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{`src="/images/learn/faq-hero.jpg"`, true},
		{`src='/images/learn/faq-hero.jpg?v=2'`, true},
		{"faq-hero.jpg", true},
		{`url(/images/learn/faq-hero.jpg)`, true},
		{`src="/images/learn/xrp-faq-hero.jpg"`, false},
		{`src="/images/learn/faq-hero.jpgx"`, true},
		{"src={`${base}faq-hero.jpg`}", true},
		{`// uses faq-hero.jpg.`, true},
		{`["x",faq-hero.jpg]`, true},
		{`src="/images/learn/xrp_faq-hero.jpg"`, false},
		{`src="/images/learn/Xfaq-hero.jpg"`, false},
		{"xrp-faq-hero.jpg and /learn/faq-hero.jpg", true},
		{`// faq hero image`, false},
	}
	for _, tc := range cases {
		if got := Parse(tc.content).HasAssetRef("faq-hero.jpg"); got != tc.want {
			t.Fatalf("HasAssetRef(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
	if Parse("anything").HasAssetRef("") {
		t.Fatal("empty name must never match")
	}
}

func TestHasLineNormalizes(t *testing.T) {
	doc := Parse("import { Metadata } from \"next\";\n  import Image from \"next/image\"  \r\n")
	if !doc.HasLine(`import Image from "next/image";`) {
		t.Fatal("expected trimmed import to match")
	}
	if !doc.HasLine(`import Image from "next/image"`) {
		t.Fatal("expected match without semicolon")
	}
	if doc.HasLine(`import Link from "next/link";`) {
		t.Fatal("unexpected match")
	}
	commented := Parse(`// import Image from "next/image";`)
	if commented.HasLine(`import Image from "next/image";`) {
		t.Fatal("a commented import is not the import")
	}
}

func TestInsertLinePriority(t *testing.T) {
	points := []InsertionPoint{
		{Match: "import type { Metadata }", Placement: Before},
		{Match: "import { Metadata }", Placement: Before},
		{Match: `"use client"`, Placement: After},
	}

	doc := Parse("\"use client\";\nimport { Metadata } from \"next\";\nexport default 1;\n")
	p, ok := doc.InsertLine(`import Image from "next/image";`, points)
	if !ok || p != points[1] {
		t.Fatalf("expected second point to win, got %+v %v", p, ok)
	}
	want := []string{
		`"use client";`,
		`import Image from "next/image";`,
		`import { Metadata } from "next";`,
		`export default 1;`,
		``,
	}
	if diff := cmp.Diff(want, doc.plainLines()); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}

	client := Parse("\"use client\";\nexport default 1;")
	if _, ok := client.InsertLine("import X;", points); !ok {
		t.Fatal("expected client directive to match")
	}
	if diff := cmp.Diff([]string{`"use client";`, "import X;", "export default 1;"}, client.plainLines()); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}

	none := Parse("export default 1;")
	if _, ok := none.InsertLine("import X;", points); ok {
		t.Fatal("expected no insertion point")
	}
	if none.String() != "export default 1;" {
		t.Fatal("document changed without a match")
	}
}

func TestInsertLineKeepsCRLF(t *testing.T) {
	doc := Parse("import { Metadata } from \"next\";\r\nexport default 1;\r\n")
	_, ok := doc.InsertLine(`import Image from "next/image";`, []InsertionPoint{{Match: `import { Metadata } from "next";`, Placement: After}})
	if !ok {
		t.Fatal("expected insertion")
	}
	want := "import { Metadata } from \"next\";\r\nimport Image from \"next/image\";\r\nexport default 1;\r\n"
	if diff := cmp.Diff(want, doc.String()); diff != "" {
		t.Fatalf("unexpected content (-want +got):\n%s", diff)
	}
}

func TestSpliceAfterFirstOccurrenceOnly(t *testing.T) {
	doc := Parse("<A>\n</LearnHero>\n<B>\n</LearnHero>\n")
	if !doc.SpliceAfter("</LearnHero>", "\n<img/>") {
		t.Fatal("expected splice")
	}
	want := "<A>\n</LearnHero>\n<img/>\n<B>\n</LearnHero>\n"
	if diff := cmp.Diff(want, doc.String()); diff != "" {
		t.Fatalf("unexpected content (-want +got):\n%s", diff)
	}
	if strings.Count(doc.String(), "<img/>") != 1 {
		t.Fatal("snippet inserted more than once")
	}
}

func TestSpliceAfterMissingAnchor(t *testing.T) {
	doc := Parse("<div>\n")
	if doc.SpliceAfter("</LearnHero>", "x") {
		t.Fatal("unexpected splice")
	}
	if doc.SpliceAfter("", "x") {
		t.Fatal("empty anchor must not splice")
	}
	if doc.String() != "<div>\n" {
		t.Fatal("document changed")
	}
}

func TestSpliceAfterCRLF(t *testing.T) {
	doc := Parse("<main>\r\n</main>\r\n")
	doc.SpliceAfter("<main>", "\n  <img/>")
	want := "<main>\r\n  <img/>\r\n</main>\r\n"
	if diff := cmp.Diff(want, doc.String()); diff != "" {
		t.Fatalf("unexpected content (-want +got):\n%s", diff)
	}
}

func TestContains(t *testing.T) {
	doc := Parse("<main>\n  </LearnHero>\n")
	if !doc.Contains("</LearnHero>") {
		t.Fatal("expected anchor")
	}
	if doc.Contains("") || doc.Contains("<aside>") {
		t.Fatal("unexpected match")
	}
}
