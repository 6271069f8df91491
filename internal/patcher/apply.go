package patcher

import (
	"fmt"

	"heropatch/internal/batch"
	"heropatch/internal/document"
)

// Request describes one patch of one document.
type Request struct {
	PageID string
	// Marker is the asset file name whose presence means the page is
	// already patched.
	Marker          string
	Anchor          string
	Snippet         string
	ImportLine      string
	InsertionPoints []document.InsertionPoint
}

// Result is the outcome of Apply.
type Result struct {
	Status  batch.Status
	Detail  string
	Content string
	// Mutated is set when the import or the snippet changed the content.
	Mutated     bool
	ImportAdded bool
	// ImportMissing is set when the import line was needed but no insertion
	// point matched, so it was left out.
	ImportMissing bool
}

// Apply patches content. Content referencing the marker is returned
// unchanged with StatusSkipped. A missing anchor yields StatusWarned; the
// import line may still have been added in that case.
func Apply(content string, req Request) Result {
	doc := document.Parse(content)
	if doc.HasAssetRef(req.Marker) {
		return Result{Status: batch.StatusSkipped, Detail: "already has hero image", Content: content}
	}

	var res Result
	if req.ImportLine != "" && !doc.HasLine(req.ImportLine) {
		if _, ok := doc.InsertLine(req.ImportLine, req.InsertionPoints); ok {
			res.ImportAdded = true
			res.Mutated = true
		} else {
			res.ImportMissing = true
		}
	}

	if doc.SpliceAfter(req.Anchor, req.Snippet) {
		res.Status = batch.StatusPatched
		res.Mutated = true
	} else {
		res.Status = batch.StatusWarned
		res.Detail = fmt.Sprintf("no %s found", req.Anchor)
	}
	res.Content = doc.String()
	return res
}
