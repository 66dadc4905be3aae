package docstore

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/geocards/geocards-api/internal/errors"
)

// normalize round-trips value through JSON so the tree only holds
// map[string]any, []any, string, float64, bool and nil. Empty objects
// collapse to nil.
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if raw, ok := value.(json.RawMessage); ok {
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, errors.InvalidArgumentf("value is not valid JSON: %v", err)
		}
		return prune(out), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.InvalidArgumentf("value is not JSON encodable: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode normalized value")
	}
	return prune(out), nil
}

func prune(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		child = prune(child)
		if child == nil {
			delete(m, k)
			continue
		}
		m[k] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// getAt walks segs from node
func getAt(node any, segs []string) any {
	for _, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[seg]
	}
	return node
}

// setAt writes value below root, creating or pruning intermediate maps.
// value must already be normalized.
func setAt(root map[string]any, segs []string, value any) {
	head := segs[0]
	if len(segs) == 1 {
		if value == nil {
			delete(root, head)
			return
		}
		root[head] = value
		return
	}

	child, ok := root[head].(map[string]any)
	if !ok {
		if value == nil {
			return
		}
		child = make(map[string]any)
	}
	setAt(child, segs[1:], value)
	if len(child) == 0 {
		delete(root, head)
		return
	}
	root[head] = child
}

func encode(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode value")
	}
	return data, nil
}

// newPushKey returns a UUIDv7 string. UUIDv7 keys sort by creation time
// and are monotonic within a process.
func newPushKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate push key")
	}
	return id.String(), nil
}
