package formdialog

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formdialog/pkg/config"
	"github.com/goliatone/go-formdialog/pkg/openapi"
)

// LoadDialogs parses every definition file in fsys.
func LoadDialogs(fsys fs.FS, opts ...config.Option) (*config.Store, error) {
	return config.LoadFS(fsys, opts...)
}

// FromOpenAPI converts the request body of one OpenAPI operation into a
// dialog definition with its button actions resolved.
func FromOpenAPI(ctx context.Context, data []byte, operationID string, opts ...openapi.Option) (Definition, error) {
	doc, err := openapi.Load(ctx, data, opts...)
	if err != nil {
		return Definition{}, err
	}
	return doc.Dialog(operationID)
}
