package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"heropatch/internal/config"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte. Tests use it to
// seed cached hero assets on either side of the cache threshold.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// HeroPage is a page source with a LearnHero block, as the hero profile
// expects.
const HeroPage = `import { Metadata } from "next";
import LearnHero from "@/components/learn/LearnHero";

export const metadata: Metadata = { title: "FAQ" };

export default function Page() {
  return (
    <main>
      <LearnHero title="FAQ">
        <p>Answers</p>
      </LearnHero>
      <section>Body</section>
    </main>
  );
}
`

// ClientPage is a client component page without LearnHero or a metadata
// import, as handled by the fallback profile.
const ClientPage = `"use client";
import { useState } from "react";

export default function Page() {
  return (
    <div className="mx-auto max-w-4xl px-4 py-16">
      <h1>FAQ</h1>
    </div>
  );
}
`

// WritePage writes content as the source file of pageID inside the layout.
func WritePage(t testing.TB, layout config.Layout, pageID, content string) string {
	t.Helper()

	path := layout.PagePath(pageID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadPage returns the current source of pageID.
func ReadPage(t testing.TB, layout config.Layout, pageID string) string {
	t.Helper()

	data, err := os.ReadFile(layout.PagePath(pageID))
	if err != nil {
		t.Fatalf("read page %s: %v", pageID, err)
	}
	return string(data)
}
