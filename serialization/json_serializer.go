package serialization

import (
	"encoding/json"
)

// JSONSerializer is the registry's "json" StateSerializer: a DebugSnapshot
// rendered straight through encoding/json. (project.Project builds the
// json_form output by string rewriting and does not use encoding/json.)
type JSONSerializer struct {
	version string
}

// NewJSONSerializer creates a new JSON serializer
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{
		version: "1.0.0",
	}
}

// Serialize converts a snapshot to JSON bytes
func (js *JSONSerializer) Serialize(snap *DebugSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, NewSerializationError("json", "serialize", "snapshot is nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, NewSerializationError("json", "serialize", err.Error())
	}

	return data, nil
}

// Deserialize converts JSON bytes back to a snapshot
func (js *JSONSerializer) Deserialize(data []byte) (*DebugSnapshot, error) {
	if len(data) == 0 {
		return nil, NewSerializationError("json", "deserialize", "data is empty")
	}

	var snap DebugSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewSerializationError("json", "deserialize", err.Error())
	}

	return &snap, nil
}

// GetName returns the name of the serializer
func (js *JSONSerializer) GetName() string {
	return "json"
}

// GetVersion returns the version of the serializer
func (js *JSONSerializer) GetVersion() string {
	return js.version
}

// SupportsVersion checks if the serializer supports a specific version
func (js *JSONSerializer) SupportsVersion(version string) bool {
	// For JSON, we support all 1.x.x versions
	return version == "1.0.0" || (len(version) > 2 && version[:2] == "1.")
}

// SerializePretty serializes a snapshot to JSON with pretty formatting, for
// a human reading a saved debug artifact.
func (js *JSONSerializer) SerializePretty(snap *DebugSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, NewSerializationError("json", "serialize", "snapshot is nil")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, NewSerializationError("json", "serialize", err.Error())
	}

	return data, nil
}
