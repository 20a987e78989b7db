package effect

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptList reports that a persisted active-effect blob could not be
// decoded. Callers at the store boundary treat this as an empty list so a
// damaged row degrades instead of failing every request that touches it.
var ErrCorruptList = errors.New("corrupt active effect list")

// DecodeList parses a persisted JSON active-effect blob.
// A nil/empty blob decodes to an empty list. Malformed JSON or entries of an
// unknown kind return ErrCorruptList (wrapped); well-formed entries with a
// non-positive TurnsRemaining are dropped rather than rejected, preserving
// the storage invariant on read.
func DecodeList(raw []byte) ([]Active, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var decoded []Active
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptList, err)
	}
	out := make([]Active, 0, len(decoded))
	for _, ac := range decoded {
		switch ac.Kind {
		case KindStatModifier, KindControl, KindDamage, KindHeal:
		default:
			return nil, fmt.Errorf("%w: unknown kind %q", ErrCorruptList, ac.Kind)
		}
		if ac.TurnsRemaining <= 0 {
			continue
		}
		out = append(out, ac)
	}
	return out, nil
}

// EncodeList serialises an active-effect list for storage.
// A nil list encodes as the empty JSON array, never JSON null.
func EncodeList(list []Active) ([]byte, error) {
	if list == nil {
		list = []Active{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encoding active effects: %w", err)
	}
	return raw, nil
}
