// Package testsupport holds fixtures shared by package tests: the signup
// form model, multipart request builders and golden file helpers.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"testing"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/openapi"
)

// SignupOperationID is the operation backing the signup form.
const SignupOperationID = "submitSignup"

// SignupForm builds the signup form model from the embedded document.
func SignupForm(t *testing.T) model.FormModel {
	t.Helper()

	doc, err := openapi.Default(context.Background())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	op, err := doc.Operation(SignupOperationID)
	if err != nil {
		t.Fatalf("lookup operation: %v", err)
	}
	form, err := model.NewBuilder(nil).Build("signup", op)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// MultipartBody encodes fields as multipart/form-data, returning the body
// and its content type. Fields are written in name order.
func MultipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range names {
		if err := writer.WriteField(name, fields[name]); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

// MultipartRequest builds a POST request carrying fields as multipart data.
func MultipartRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()

	body, contentType := MultipartBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// MustReadGoldenString returns the contents of a golden file.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	return string(data)
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
