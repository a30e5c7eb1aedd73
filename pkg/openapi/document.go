package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed forms.yaml
var formsDocument []byte

// ErrOperationNotFound is returned when an operation id is not declared.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Document wraps a loaded and validated OpenAPI document.
type Document struct {
	spec *openapi3.T
	raw  []byte
}

// Load parses and validates an OpenAPI document from JSON or YAML bytes.
// External references are not followed.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: raw document is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}

	return &Document{spec: spec, raw: append([]byte(nil), raw...)}, nil
}

// Default loads the embedded forms document.
func Default(ctx context.Context) (*Document, error) {
	return Load(ctx, formsDocument)
}

// Raw returns a copy of the bytes the document was loaded from.
func (d *Document) Raw() []byte {
	if d == nil {
		return nil
	}
	return append([]byte(nil), d.raw...)
}

// Title returns info.title.
func (d *Document) Title() string {
	if d == nil || d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// MarshalJSON renders the document as JSON, suitable for serving.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.spec == nil {
		return nil, errors.New("openapi: document is nil")
	}
	return d.spec.MarshalJSON()
}

// Operations returns every operation declaring a form-encoded request body,
// ordered by operation id.
func (d *Document) Operations() []Operation {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}

	var out []Operation
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			converted, ok := convertOperation(path, method, op)
			if !ok {
				continue
			}
			out = append(out, converted)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Operation returns the operation with the given id.
func (d *Document) Operation(id string) (Operation, error) {
	id = strings.TrimSpace(id)
	for _, op := range d.Operations() {
		if op.ID == id {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
}

// formEncodings lists the request body media types a form can post, in order
// of preference.
var formEncodings = []string{
	"multipart/form-data",
	"application/x-www-form-urlencoded",
}

func convertOperation(path, method string, op *openapi3.Operation) (Operation, bool) {
	if op == nil || op.OperationID == "" || op.RequestBody == nil || op.RequestBody.Value == nil {
		return Operation{}, false
	}

	for _, encoding := range formEncodings {
		media := op.RequestBody.Value.Content.Get(encoding)
		if media == nil || media.Schema == nil {
			continue
		}
		return Operation{
			ID:          op.OperationID,
			Method:      strings.ToUpper(method),
			Path:        path,
			Summary:     op.Summary,
			Description: op.Description,
			EncType:     encoding,
			RequestBody: convertSchema(media.Schema),
			Extensions:  cloneExtensions(op.Extensions),
		}, true
	}
	return Operation{}, false
}
