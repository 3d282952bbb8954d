// Package jsonpatch computes RFC 6902 patches between two JSON documents.
package jsonpatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Operation is one RFC 6902 step.
type Operation struct {
	Op    string
	Path  string
	Value any
}

// MarshalJSON omits the value of removals and keeps explicit nulls
// elsewhere.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Op == "remove" {
		return json.Marshal(struct {
			Op   string `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	}
	return json.Marshal(struct {
		Op    string `json:"op"`
		Path  string `json:"path"`
		Value any    `json:"value"`
	}{o.Op, o.Path, o.Value})
}

var emptyPatch = json.RawMessage("[]")

// Between diffs two Go values through their JSON form and returns the
// forward (a→b) and backward (b→a) patches.
func Between(a, b any) (fwd, bwd []Operation, err error) {
	da, err := toDocument(a)
	if err != nil {
		return nil, nil, err
	}
	db, err := toDocument(b)
	if err != nil {
		return nil, nil, err
	}
	fwd, bwd = diffBoth(da, db, "")
	return fwd, bwd, nil
}

// Marshal renders a patch, "[]" when empty.
func Marshal(ops []Operation) json.RawMessage {
	if len(ops) == 0 {
		return emptyPatch
	}
	b, err := json.Marshal(ops)
	if err != nil {
		return emptyPatch
	}
	return b
}

func toDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// diffBoth computes forward and backward patches in one traversal. Object
// keys are visited in sorted order so patches are stable.
func diffBoth(a, b any, path string) (fwd, bwd []Operation) {
	if a == nil && b == nil {
		return nil, nil
	}
	if a == nil || b == nil {
		return []Operation{replaceOp(path, b)}, []Operation{replaceOp(path, a)}
	}

	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		return diffObjects(aMap, bMap, path)
	}

	aArr, aIsArr := a.([]any)
	bArr, bIsArr := b.([]any)
	if aIsArr && bIsArr {
		return diffArrays(aArr, bArr, path)
	}

	if aIsMap || bIsMap || aIsArr || bIsArr || a != b {
		return []Operation{replaceOp(path, b)}, []Operation{replaceOp(path, a)}
	}
	return nil, nil
}

func diffObjects(a, b map[string]any, path string) (fwd, bwd []Operation) {
	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; !ok {
			childPath := path + "/" + escapeKey(k)
			fwd = append(fwd, removeOp(childPath))
			bwd = append(bwd, addOp(childPath, a[k]))
		}
	}

	for _, k := range sortedKeys(b) {
		childPath := path + "/" + escapeKey(k)
		av, inA := a[k]
		if !inA {
			fwd = append(fwd, addOp(childPath, b[k]))
			bwd = append(bwd, removeOp(childPath))
			continue
		}
		subFwd, subBwd := diffBoth(av, b[k], childPath)
		fwd = append(fwd, subFwd...)
		bwd = append(bwd, subBwd...)
	}
	return fwd, bwd
}

func diffArrays(a, b []any, path string) (fwd, bwd []Operation) {
	common := min(len(a), len(b))

	for i := 0; i < common; i++ {
		subFwd, subBwd := diffBoth(a[i], b[i], path+"/"+strconv.Itoa(i))
		fwd = append(fwd, subFwd...)
		bwd = append(bwd, subBwd...)
	}

	// Removals run from the end so earlier indices stay valid.
	for i := len(a) - 1; i >= common; i-- {
		fwd = append(fwd, removeOp(path+"/"+strconv.Itoa(i)))
	}
	for i := common; i < len(a); i++ {
		bwd = append(bwd, addOp(path+"/"+strconv.Itoa(i), a[i]))
	}

	for i := common; i < len(b); i++ {
		fwd = append(fwd, addOp(path+"/"+strconv.Itoa(i), b[i]))
	}
	for i := len(b) - 1; i >= common; i-- {
		bwd = append(bwd, removeOp(path+"/"+strconv.Itoa(i)))
	}
	return fwd, bwd
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func replaceOp(path string, value any) Operation {
	return Operation{Op: "replace", Path: path, Value: value}
}

func addOp(path string, value any) Operation {
	return Operation{Op: "add", Path: path, Value: value}
}

func removeOp(path string) Operation {
	return Operation{Op: "remove", Path: path}
}

// escapeKey escapes a JSON Pointer token per RFC 6901.
func escapeKey(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}
