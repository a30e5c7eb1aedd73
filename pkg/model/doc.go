// Package model defines the typed form model rendered by the site and the
// state that travels with a submission: submitted values, validation results,
// per-field metadata and the submission lifecycle. Builders convert OpenAPI
// request bodies (see pkg/openapi) into FormModel values; validation rules
// carry canonical identifiers (min/max, minLength/maxLength, pattern) with
// string parameters so templates can map them onto HTML constraint attributes.
package model
