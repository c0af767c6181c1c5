package serialization

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/funvibe/funbit/pkg/funbit"
)

// StepRecord is one refinement step's placeholder stream and the logical
// form it produced, captured from pipeline.StepTrace.
type StepRecord struct {
	Stage  int
	Stream string
	LF     string
}

// DebugSnapshot bundles one utterance's full per-step trace plus the
// capacity-overflow counters the placeholder allocators reported, so a run
// can be persisted and replayed without re-parsing.
type DebugSnapshot struct {
	Utterance string
	Steps     []StepRecord
	Overflows map[string]int // category -> number of steps whose allocator ran out of its placeholders
}

// ToMap renders snap as the map[string]interface{} shape
// MessagePackSerializer's generic value encoder already knows how to walk.
func (snap *DebugSnapshot) ToMap() map[string]interface{} {
	steps := make([]interface{}, len(snap.Steps))
	for i, step := range snap.Steps {
		steps[i] = map[string]interface{}{
			"stage":  step.Stage,
			"stream": step.Stream,
			"lf":     step.LF,
		}
	}
	overflows := make(map[string]interface{}, len(snap.Overflows))
	for category, count := range snap.Overflows {
		overflows[category] = count
	}
	return map[string]interface{}{
		"utterance": snap.Utterance,
		"steps":     steps,
		"overflows": overflows,
	}
}

// DebugSnapshotFromMap reverses ToMap, tolerating the differing numeric
// types JSON (float64) and MessagePack (int64) decode into a
// map[string]interface{}.
func DebugSnapshotFromMap(m map[string]interface{}) *DebugSnapshot {
	snap := &DebugSnapshot{Overflows: make(map[string]int)}
	snap.Utterance, _ = m["utterance"].(string)

	if rawSteps, ok := m["steps"].([]interface{}); ok {
		for _, raw := range rawSteps {
			sm, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			stream, _ := sm["stream"].(string)
			lf, _ := sm["lf"].(string)
			snap.Steps = append(snap.Steps, StepRecord{Stage: toInt(sm["stage"]), Stream: stream, LF: lf})
		}
	}

	if rawOverflows, ok := m["overflows"].(map[string]interface{}); ok {
		for category, count := range rawOverflows {
			snap.Overflows[category] = toInt(count)
		}
	}
	return snap
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// SnapshotCodec is the registry's "binary" StateSerializer: a DebugSnapshot
// encoded as a funbit bitstring. Each string field is a 32-bit length
// followed by the raw bytes; the overflow table is a sorted sequence of
// (category length, category bytes, count) integer groups. funbit handles
// the bit-level layout in Serialize; since every field is byte-aligned,
// Deserialize walks the resulting byte slice directly rather than driving a funbit
// Matcher (see DESIGN.md's scoping note).
type SnapshotCodec struct {
	version string
}

// NewSnapshotCodec returns the funbit-backed DebugSnapshot codec.
func NewSnapshotCodec() *SnapshotCodec {
	return &SnapshotCodec{version: "1.0.0"}
}

// GetName returns the name of the serializer
func (c *SnapshotCodec) GetName() string { return "binary" }

// GetVersion returns the version of the serializer
func (c *SnapshotCodec) GetVersion() string { return c.version }

// SupportsVersion checks if the serializer supports a specific version
func (c *SnapshotCodec) SupportsVersion(version string) bool { return version == "1.0.0" }

// Serialize builds a bitstring out of snap using funbit segments.
func (c *SnapshotCodec) Serialize(snap *DebugSnapshot) ([]byte, error) {
	builder := funbit.NewBuilder()

	addString := func(s string) error {
		funbit.AddInteger(builder, len(s), funbit.WithSize(uint(32)))
		if len(s) > 0 {
			funbit.AddBinary(builder, []byte(s))
		}
		return nil
	}

	if err := addString(snap.Utterance); err != nil {
		return nil, err
	}

	funbit.AddInteger(builder, len(snap.Steps), funbit.WithSize(uint(32)))
	for _, step := range snap.Steps {
		funbit.AddInteger(builder, step.Stage, funbit.WithSize(uint(32)))
		if err := addString(step.Stream); err != nil {
			return nil, err
		}
		if err := addString(step.LF); err != nil {
			return nil, err
		}
	}

	categories := make([]string, 0, len(snap.Overflows))
	for category := range snap.Overflows {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	funbit.AddInteger(builder, len(categories), funbit.WithSize(uint(32)))
	for _, category := range categories {
		if err := addString(category); err != nil {
			return nil, err
		}
		funbit.AddInteger(builder, snap.Overflows[category], funbit.WithSize(uint(32)))
	}

	bitstring, err := funbit.Build(builder)
	if err != nil {
		return nil, fmt.Errorf("failed to build debug snapshot bitstring: %v", err)
	}
	return bitstring.ToBytes(), nil
}

// Deserialize reverses Serialize by walking the byte-aligned length
// prefixes the encoder wrote, rather than driving a funbit Matcher.
func (c *SnapshotCodec) Deserialize(data []byte) (*DebugSnapshot, error) {
	r := &byteReader{data: data}

	utterance, err := r.readString()
	if err != nil {
		return nil, fmt.Errorf("failed to read utterance: %v", err)
	}

	stepCount, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("failed to read step count: %v", err)
	}
	steps := make([]StepRecord, 0, stepCount)
	for i := uint32(0); i < stepCount; i++ {
		stage, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read step %d stage: %v", i, err)
		}
		stream, err := r.readString()
		if err != nil {
			return nil, fmt.Errorf("failed to read step %d stream: %v", i, err)
		}
		lf, err := r.readString()
		if err != nil {
			return nil, fmt.Errorf("failed to read step %d lf: %v", i, err)
		}
		steps = append(steps, StepRecord{Stage: int(stage), Stream: stream, LF: lf})
	}

	overflowCount, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("failed to read overflow count: %v", err)
	}
	overflows := make(map[string]int, overflowCount)
	for i := uint32(0); i < overflowCount; i++ {
		category, err := r.readString()
		if err != nil {
			return nil, fmt.Errorf("failed to read overflow %d category: %v", i, err)
		}
		count, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read overflow %d count: %v", i, err)
		}
		overflows[category] = int(count)
	}

	return &DebugSnapshot{Utterance: utterance, Steps: steps, Overflows: overflows}, nil
}

// byteReader walks the byte-aligned fields Serialize wrote in order.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readUint32() (uint32, error) {
	if len(r.data)-r.pos < 4 {
		return 0, fmt.Errorf("unexpected end of data")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *byteReader) readString() (string, error) {
	length, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if len(r.data)-r.pos < int(length) {
		return "", fmt.Errorf("unexpected end of data")
	}
	s := string(r.data[r.pos : r.pos+int(length)])
	r.pos += int(length)
	return s, nil
}
