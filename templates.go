package formdialog

import (
	"io/fs"

	"github.com/goliatone/go-formdialog/pkg/indicator"
)

// IndicatorTemplates exposes the built-in step indicator templates so callers
// can copy or extend them and pass the result to indicator.WithFS.
func IndicatorTemplates() fs.FS {
	return indicator.EmbeddedFS()
}
