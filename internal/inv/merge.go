package inv

import (
	"encoding/json"
	"fmt"
	"sort"

	"inv-go/internal/model"
)

// toTree converts a typed value into its generic JSON form.
func toTree(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// fromTree decodes a generic JSON value into out.
func fromTree(tree any, out any) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// mergeDeep overlays persisted onto def. Object fields are merged key-wise one
// level deep, sequence fields are taken from persisted only when they really
// are sequences (otherwise reset to empty), and any other field present in
// persisted replaces the default. Keys unknown to def are carried through.
func mergeDeep(def, persisted map[string]any) map[string]any {
	out := make(map[string]any, len(def)+len(persisted))
	for k, v := range persisted {
		out[k] = v
	}
	for k, dv := range def {
		pv, present := persisted[k]
		switch d := dv.(type) {
		case map[string]any:
			merged := make(map[string]any, len(d))
			for kk, vv := range d {
				merged[kk] = vv
			}
			if pm, ok := pv.(map[string]any); ok {
				for kk, vv := range pm {
					merged[kk] = vv
				}
			}
			out[k] = merged
		case []any:
			if ps, ok := pv.([]any); ok {
				out[k] = ps
			} else {
				out[k] = []any{}
			}
		default:
			if !present {
				out[k] = dv
			}
		}
	}
	return out
}

// mergeShallow overlays the top-level fields of persisted onto def.
func mergeShallow(def, persisted map[string]any) map[string]any {
	out := make(map[string]any, len(def)+len(persisted))
	for k, v := range def {
		out[k] = v
	}
	for k, v := range persisted {
		out[k] = v
	}
	return out
}

// parseObject decodes blob as a JSON object.
func parseObject(blob []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(blob, &obj); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("parsing: not a JSON object")
	}
	return obj, nil
}

// overDefaults decodes blob, merges it over the typed default with merge and
// decodes the result into out.
func overDefaults(def any, blob []byte, merge func(def, persisted map[string]any) map[string]any, out any) error {
	persisted, err := parseObject(blob)
	if err != nil {
		return err
	}
	defTree, err := toTree(def)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if err := fromTree(merge(defTree, persisted), out); err != nil {
		return fmt.Errorf("decoding merged state: %w", err)
	}
	return nil
}

// decodeSnapshot decodes a merged state tree into snap, which must hold the
// defaults. Object fields are decoded key by key and sequences element by
// element; values that do not fit the typed layout are left at their default
// or dropped, and their paths are returned sorted.
func decodeSnapshot(tree map[string]any, snap *model.Snapshot) []string {
	var skipped []string

	decodeFields(tree["inventory"], "inventory", &snap.Inventory, &skipped)
	decodeFields(tree["cable"], "cable", &snap.Cable, &skipped)
	decodeFields(tree["settings"], "settings", &snap.Settings, &skipped)
	decodeFields(tree["meta"], "meta", &snap.Meta, &skipped)
	snap.Records = decodeElements[model.Record](tree["sips"], "sips", &skipped)
	snap.Logs = decodeElements[model.LogEntry](tree["logs"], "logs", &skipped)

	sort.Strings(skipped)
	return skipped
}

// decodeFields applies the fields of object v to target one at a time. A
// field that fails to decode leaves target untouched.
func decodeFields[T any](v any, key string, target *T, skipped *[]string) {
	fields, _ := v.(map[string]any)
	for field, fv := range fields {
		next := *target
		if err := fromTree(map[string]any{field: fv}, &next); err != nil {
			*skipped = append(*skipped, key+"."+field)
			continue
		}
		*target = next
	}
}

func decodeElements[T any](v any, key string, skipped *[]string) []T {
	items, _ := v.([]any)
	out := make([]T, 0, len(items))
	for i, item := range items {
		var elem T
		if _, ok := item.(map[string]any); !ok {
			*skipped = append(*skipped, fmt.Sprintf("%s[%d]", key, i))
			continue
		}
		if err := fromTree(item, &elem); err != nil {
			*skipped = append(*skipped, fmt.Sprintf("%s[%d]", key, i))
			continue
		}
		out = append(out, elem)
	}
	return out
}
