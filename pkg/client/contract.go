package client

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation identifiers declared in storeapi.yaml.
const (
	OpListKeys = "listKeys"
	OpGetValue = "getValue"
	OpSetValue = "setValue"
	OpDelete   = "deleteValue"
	OpPing     = "ping"
	OpPurge    = "purge"
)

//go:embed storeapi.yaml
var storeAPI []byte

// StoreAPI returns a copy of the embedded store API description.
func StoreAPI() []byte {
	out := make([]byte, len(storeAPI))
	copy(out, storeAPI)
	return out
}

// Contract validates store responses against an OpenAPI description.
type Contract struct {
	doc       *openapi3.T
	responses map[string]*openapi3.Schema
}

// LoadContract parses and validates raw as an OpenAPI 3 document and indexes
// the JSON schema of every operation's 200 response by operationId.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("client: contract document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("client: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("client: validate contract: %w", err)
	}

	contract := &Contract{doc: doc, responses: make(map[string]*openapi3.Schema)}
	if doc.Paths == nil {
		return contract, nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil || op.OperationID == "" || op.Responses == nil {
				continue
			}
			ref := op.Responses.Status(http.StatusOK)
			if ref == nil || ref.Value == nil {
				continue
			}
			media := ref.Value.Content.Get("application/json")
			if media == nil || media.Schema == nil || media.Schema.Value == nil {
				continue
			}
			contract.responses[op.OperationID] = media.Schema.Value
		}
	}
	return contract, nil
}

// DefaultContract loads the embedded store API description.
func DefaultContract(ctx context.Context) (*Contract, error) {
	return LoadContract(ctx, storeAPI)
}

// Operations lists the operation identifiers that carry a response schema.
func (c *Contract) Operations() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.responses))
	for id := range c.responses {
		out = append(out, id)
	}
	return out
}

// ValidateResponse checks body against the documented 200 response of
// operationID. Operations without a documented schema pass.
func (c *Contract) ValidateResponse(operationID string, body []byte) error {
	if c == nil {
		return nil
	}
	schema, ok := c.responses[operationID]
	if !ok {
		return nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrContract, operationID, err)
	}
	if err := schema.VisitJSON(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrContract, operationID, err)
	}
	return nil
}
