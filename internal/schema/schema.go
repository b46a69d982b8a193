// Package schema validates backup documents against the embedded JSON
// Schema before they are persisted. A document that fails here is never
// written to an archive.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed backup_schema.json
var backupSchema []byte

// Validator checks serialized backup documents against the backup schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded schema. Compilation failure means the embedded
// document itself is broken, so this only errors on a bad build.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat = true

	if err := c.AddResource("backup.schema.json", bytes.NewReader(backupSchema)); err != nil {
		return nil, fmt.Errorf("schema.New: add resource: %w", err)
	}

	s, err := c.Compile("backup.schema.json")
	if err != nil {
		return nil, fmt.Errorf("schema.New: compile: %w", err)
	}

	return &Validator{schema: s}, nil
}

// Validate checks one serialized backup document.
func (v *Validator) Validate(doc []byte) error {
	var inst any
	if err := json.Unmarshal(doc, &inst); err != nil {
		return fmt.Errorf("schema.Validator.Validate: decode: %w", err)
	}

	if err := v.schema.Validate(inst); err != nil {
		return fmt.Errorf("schema.Validator.Validate: %w", err)
	}

	return nil
}
