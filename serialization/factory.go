package serialization

// NewDefaultSerializerRegistry creates a serializer registry with every
// DebugSnapshot encoding this package knows: the funbit-backed binary
// codec, JSON, and MessagePack.
func NewDefaultSerializerRegistry() *SerializerRegistry {
	registry := NewSerializerRegistry()

	if err := registry.RegisterSerializer(NewJSONSerializer()); err != nil {
		// Log error but continue
	}

	if err := registry.RegisterSerializer(NewMessagePackSerializer()); err != nil {
		// Log error but continue
	}

	if err := registry.RegisterSerializer(NewSnapshotCodec()); err != nil {
		// Log error but continue
	}

	// Set JSON as default
	if err := registry.SetDefaultSerializer("json"); err != nil {
		// Log error but continue
	}

	return registry
}

// GetSerializer returns a serializer by name from the default registry
func GetSerializer(name string) (StateSerializer, error) {
	registry := NewDefaultSerializerRegistry()
	return registry.GetSerializer(name)
}

// Serialize serializes a snapshot using the specified format
func Serialize(snap *DebugSnapshot, format string) ([]byte, error) {
	registry := NewDefaultSerializerRegistry()
	serializer, err := registry.GetSerializer(format)
	if err != nil {
		return nil, err
	}
	return serializer.Serialize(snap)
}

// Deserialize deserializes a snapshot using the specified format
func Deserialize(data []byte, format string) (*DebugSnapshot, error) {
	registry := NewDefaultSerializerRegistry()
	serializer, err := registry.GetSerializer(format)
	if err != nil {
		return nil, err
	}
	return serializer.Deserialize(data)
}

// ConvertFormat converts a serialized snapshot from one format to another
func ConvertFormat(data []byte, fromFormat, toFormat string) ([]byte, error) {
	registry := NewDefaultSerializerRegistry()
	return registry.ConvertFormat(data, fromFormat, toFormat)
}

// GetSupportedFormats returns all supported serialization formats
func GetSupportedFormats() []string {
	registry := NewDefaultSerializerRegistry()
	return registry.GetSupportedFormats()
}

// IsFormatSupported checks if a format is supported
func IsFormatSupported(format string) bool {
	registry := NewDefaultSerializerRegistry()
	return registry.IsFormatSupported(format)
}
