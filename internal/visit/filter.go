package trek

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// FilterVisitor forwards file and non-file visits whose base name matches a
// glob pattern and passes the directory hooks through unchanged. Pattern and
// name are NFC-normalized before matching so that differently composed
// Unicode spellings of the same name compare equal.
//
// An empty Pattern forwards everything.
type FilterVisitor struct {
	Inner   Visitor
	Pattern string
}

func (v *FilterVisitor) matches(path string) bool {
	if v.Pattern == "" {
		return true
	}
	matched, err := filepath.Match(norm.NFC.String(v.Pattern), norm.NFC.String(filepath.Base(path)))
	return err == nil && matched
}

func (v *FilterVisitor) VisitFile(path string, meta Metadata) {
	if v.matches(path) {
		v.Inner.VisitFile(path, meta)
	}
}

func (v *FilterVisitor) VisitNonFile(path string, meta Metadata) {
	if v.matches(path) {
		v.Inner.VisitNonFile(path, meta)
	}
}

func (v *FilterVisitor) EnterDir(path string, meta Metadata) bool {
	return v.Inner.EnterDir(path, meta)
}

func (v *FilterVisitor) ExitDir(path string, meta Metadata) {
	v.Inner.ExitDir(path, meta)
}
