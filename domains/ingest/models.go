package ingest

import (
	"github.com/gomantics/repolens/libs/githost"
)

// Repository is the assembled ingestion artifact: the resolved reference,
// the included files in tree order, a rendered tree view, and the
// concatenated content the analysis pipeline consumes. It is owned by the
// ingestion that produced it and never mutated afterwards, so it is safe to
// share read-only across concurrent chunk analyses.
//
// TotalSizeBytes equals the bytes each included file contributed to
// Content; FileCount equals the number of included files.
type Repository struct {
	Ref              githost.Ref
	Files            []githost.FileEntry
	TreeText         string
	Content          string
	FileCount        int
	TotalSizeBytes   int64
	AllFilesIncluded bool
}
