package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/render"
)

const ageMessage = "Server validation: You must be at least 12 to sign up"

func TestMergeForm_ServerStateTakesPrecedence(t *testing.T) {
	form := signupForm()
	base := render.DefaultState(form)
	server := &model.FormState{
		Values: model.Values{"age": float64(8)},
		Errors: []string{ageMessage},
		FieldMeta: map[string]model.FieldMeta{
			"age": {Touched: true, Errors: []string{ageMessage}},
		},
	}

	merged := render.MergeForm(form, base, server)

	want := model.FormState{
		Values: model.Values{"firstName": "", "age": float64(8)},
		Errors: []string{ageMessage},
		FieldMeta: map[string]model.FieldMeta{
			"age": {Touched: true, Errors: []string{ageMessage}},
		},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged state mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeForm_UncoveredFieldsKeepDefaults(t *testing.T) {
	form := signupForm()
	base := render.DefaultState(form)
	base.Values["firstName"] = "Client"

	server := &model.FormState{
		Values: model.Values{"age": float64(30), "extra": "ignored"},
	}
	merged := render.MergeForm(form, base, server)

	if merged.Values["firstName"] != "Client" {
		t.Fatalf("expected uncovered field to keep client value, got %v", merged.Values["firstName"])
	}
	if merged.Values["age"] != float64(30) {
		t.Fatalf("expected server age, got %v", merged.Values["age"])
	}
	if _, ok := merged.Values["extra"]; ok {
		t.Fatalf("values outside the form must not be merged")
	}
	if len(merged.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", merged.Errors)
	}
	if base.Values["age"] != float64(0) {
		t.Fatalf("merge must not mutate the base state")
	}
}

func TestMergeForm_UnplacedFieldErrorsBecomeFormErrors(t *testing.T) {
	form := signupForm().Subset("age")
	server := &model.FormState{
		Values: model.Values{"age": float64(20), "firstName": "Alice"},
		Errors: []string{" dup ", "dup"},
		FieldMeta: map[string]model.FieldMeta{
			"firstName": {Touched: true, Errors: []string{"First name must be at most 100 characters"}},
			"/body/age": {Errors: []string{"Age odd"}},
		},
	}

	merged := render.MergeForm(form, render.DefaultState(form), server)

	wantErrors := []string{"dup", "First name must be at most 100 characters"}
	if diff := cmp.Diff(wantErrors, merged.Errors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	wantMeta := map[string]model.FieldMeta{
		"age": {Touched: true, Errors: []string{"Age odd"}},
	}
	if diff := cmp.Diff(wantMeta, merged.FieldMeta); diff != "" {
		t.Fatalf("field meta mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeForm_NilServerState(t *testing.T) {
	form := signupForm()
	merged := render.MergeForm(form, render.DefaultState(form), nil)
	want := model.FormState{
		Values:    model.Values{"firstName": "", "age": float64(0)},
		FieldMeta: map[string]model.FieldMeta{},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged state mismatch (-want +got):\n%s", diff)
	}
}
