package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_LoadsSignupOperation(t *testing.T) {
	doc, err := Default(context.Background())
	if err != nil {
		t.Fatalf("load default document: %v", err)
	}

	op, err := doc.Operation("submitSignup")
	if err != nil {
		t.Fatalf("lookup operation: %v", err)
	}
	if op.Method != "POST" || op.Path != "/api/forms/signup" {
		t.Fatalf("unexpected operation route: %s %s", op.Method, op.Path)
	}
	if op.EncType != "multipart/form-data" {
		t.Fatalf("expected multipart encoding, got %q", op.EncType)
	}
	if op.RequestBody.Ref != "#/components/schemas/Signup" {
		t.Fatalf("expected resolved ref to be preserved, got %q", op.RequestBody.Ref)
	}

	age, ok := op.RequestBody.Properties["age"]
	if !ok {
		t.Fatalf("expected age property")
	}
	if age.Type != "number" || age.Minimum == nil || *age.Minimum != 0 {
		t.Fatalf("unexpected age schema: %+v", age)
	}
	firstName := op.RequestBody.Properties["firstName"]
	if firstName.MaxLength == nil || *firstName.MaxLength != 100 {
		t.Fatalf("unexpected firstName schema: %+v", firstName)
	}
}

func TestDocument_OperationNotFound(t *testing.T) {
	doc, err := Default(context.Background())
	if err != nil {
		t.Fatalf("load default document: %v", err)
	}
	if _, err := doc.Operation("missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestDocument_OperationsSkipNonFormBodies(t *testing.T) {
	raw := []byte(`
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /json:
    post:
      operationId: jsonOnly
      requestBody:
        content:
          application/json:
            schema: {type: object}
      responses:
        "200": {description: ok}
  /form:
    post:
      operationId: formPost
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              properties:
                name: {type: string}
      responses:
        "200": {description: ok}
`)
	doc, err := Load(context.Background(), raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var ids []string
	for _, op := range doc.Operations() {
		ids = append(ids, op.ID+" "+op.EncType)
	}
	want := []string{"formPost application/x-www-form-urlencoded"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RejectsInvalidDocument(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := Load(context.Background(), []byte(`openapi: 3.0.3`)); err == nil {
		t.Fatalf("expected validation error for document without info")
	}
}

func TestDocument_MarshalJSON(t *testing.T) {
	doc, err := Default(context.Background())
	if err != nil {
		t.Fatalf("load default document: %v", err)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("expected openapi version in payload, got %v", decoded["openapi"])
	}
}
