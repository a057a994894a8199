// internal/store/codec.go
package store

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec encodes envelopes for a file tier.
type Codec interface {
	Ext() string
	Encode(env Envelope) ([]byte, error)
	Decode(data []byte) (Envelope, error)
}

// JSONCodec writes indented JSON.
type JSONCodec struct{}

func (JSONCodec) Ext() string { return ".json" }

func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope json: %w", err)
	}
	return env, nil
}

// YAMLCodec writes YAML. Documents pass through the JSON form so absent
// scalars and malformed gesture tables behave exactly as they do in JSON.
type YAMLCodec struct{}

func (YAMLCodec) Ext() string { return ".yaml" }

func (YAMLCodec) Encode(env Envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope yaml: %w", err)
	}
	return out, nil
}

func (YAMLCodec) Decode(data []byte) (Envelope, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return Envelope{}, fmt.Errorf("parse envelope yaml: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope yaml: %w", err)
	}
	return env, nil
}
