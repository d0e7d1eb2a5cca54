package fuel

import (
	"math"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cast"
)

// Extractor pulls a numeric fuel reading out of a device attribute blob.
// Candidate keys form a priority-ordered fallback list: the first key
// yielding a finite number wins, later keys are never consulted.
//
// A key may address nested fields with dots or brackets ("fuel.level",
// "io[48]"); bracket segments are treated as additional field names.
type Extractor struct {
	keys []string
}

type ExtractorOption func(e *Extractor)

func WithCandidateKeys(keys ...string) ExtractorOption {
	return func(e *Extractor) {
		e.keys = keys
	}
}

// WithCandidateKeyList accepts a comma separated key list as configured
// via FUEL_JSON_KEY style settings.
func WithCandidateKeyList(list string) ExtractorOption {
	return func(e *Extractor) {
		keys := make([]string, 0)
		for _, k := range strings.Split(list, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		e.keys = keys
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	ret := &Extractor{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Extract returns the first finite fuel value found in attributes.
// The second return value is false if attributes is nil, not parseable
// or no candidate key yields a finite number.
func (e *Extractor) Extract(attributes any) (float64, bool) {
	obj := toObject(attributes)
	if obj == nil {
		return 0, false
	}
	for _, key := range e.keys {
		raw, ok := walkPath(obj, key)
		if !ok {
			continue
		}
		val, err := cast.ToFloat64E(raw)
		if err != nil {
			continue
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			continue
		}
		return val, true
	}
	return 0, false
}

func toObject(attributes any) map[string]any {
	switch v := attributes.(type) {
	case nil:
		return nil
	case string:
		parsed, err := oj.ParseString(v)
		if err != nil {
			return nil
		}
		if obj, ok := parsed.(map[string]any); ok {
			return obj
		}
		return nil
	case map[string]any:
		return v
	default:
		return nil
	}
}

// walkPath resolves a (possibly nested) candidate key against obj.
func walkPath(obj map[string]any, key string) (any, bool) {
	var cur any = obj
	for _, seg := range splitPath(key) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitPath(key string) []string {
	segs := make([]string, 0, 1)
	for _, part := range strings.Split(key, ".") {
		for {
			open := strings.IndexByte(part, '[')
			if open == -1 {
				break
			}
			if open > 0 {
				segs = append(segs, part[:open])
			}
			part = part[open+1:]
			if end := strings.IndexByte(part, ']'); end != -1 {
				segs = append(segs, part[:end])
				part = part[end+1:]
			} else {
				segs = append(segs, part)
				part = ""
			}
		}
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}
