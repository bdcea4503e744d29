// Package modelconfig decodes the model-configuration document the host
// exposes for a loaded model. The document is consumed read-only; this
// package adds typed access, struct validation and parameter decoding on
// top of the raw JSON text.
package modelconfig

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// validate is a package-level singleton; creating a validator per call is
// expensive.
var validate = validator.New()

// Tensor declares one input or output tensor of the model.
type Tensor struct {
	Name     string  `json:"name" validate:"required"`
	DataType string  `json:"data_type,omitempty"`
	Dims     []int64 `json:"dims,omitempty"`
}

// Parameter is one entry of the configuration's string-valued parameter map.
type Parameter struct {
	StringValue string `json:"string_value"`
}

// Config is the declared configuration of a model version.
type Config struct {
	Name                 string               `json:"name" validate:"required"`
	Platform             string               `json:"platform,omitempty"`
	Backend              string               `json:"backend,omitempty"`
	MaxBatchSize         int                  `json:"max_batch_size" validate:"gte=0"`
	Inputs               []Tensor             `json:"input,omitempty" validate:"dive"`
	Outputs              []Tensor             `json:"output,omitempty" validate:"dive"`
	Parameters           map[string]Parameter `json:"parameters,omitempty"`
	DefaultModelFilename string               `json:"default_model_filename,omitempty"`
}

// Parse decodes and validates a model-configuration JSON document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode model config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration's declared constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("model config validation failed: %w", err)
	}
	return nil
}

// Input returns the declared input tensor with the given name.
func (c *Config) Input(name string) (Tensor, bool) {
	for _, t := range c.Inputs {
		if t.Name == name {
			return t, true
		}
	}
	return Tensor{}, false
}

// Output returns the declared output tensor with the given name.
func (c *Config) Output(name string) (Tensor, bool) {
	for _, t := range c.Outputs {
		if t.Name == name {
			return t, true
		}
	}
	return Tensor{}, false
}

// DecodeParameters flattens the configuration's parameter map to its string
// values, decodes them into target (a struct with json tags and string
// fields), and validates the result. Backends use it to read their own
// settings out of the model configuration.
func DecodeParameters(c *Config, target any) error {
	flat := make(map[string]string, len(c.Parameters))
	for key, p := range c.Parameters {
		flat[key] = p.StringValue
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("failed to marshal parameter map: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode parameters into %T: %w", target, err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	return nil
}

// ParametersSchema generates a JSON schema (Draft 2020-12) describing the
// parameter struct a backend accepts, for publishing alongside the backend.
func ParametersSchema(target any) ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(target)

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
