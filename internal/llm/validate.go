package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas is the process-wide compiled schema cache. Schemas are keyed by
// name, so two different definitions must not share a name.
var schemas = &schemaSet{compiled: map[string]*jsonschema.Schema{}}

type schemaSet struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// validate checks raw against s. A nil schema accepts anything.
func (set *schemaSet) validate(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	compiled, err := set.get(s)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("does not match %s: %w", s.Name, err)}
	}
	return nil
}

func (set *schemaSet) get(s *Schema) (*jsonschema.Schema, error) {
	set.mu.Lock()
	defer set.mu.Unlock()
	if c, ok := set.compiled[s.Name]; ok {
		return c, nil
	}

	// The compiler wants decoded JSON values, not Go maps with typed slices.
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", s.Name, err)
	}
	var doc any
	if err := json.Unmarshal(def, &doc); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}

	url := "schema://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	set.compiled[s.Name] = compiled
	return compiled, nil
}
