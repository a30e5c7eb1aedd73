// Package openapi loads the OpenAPI document describing the form submission
// endpoints and exposes its operations through small domain wrappers so the
// rest of the module does not depend on kin-openapi types.
package openapi
