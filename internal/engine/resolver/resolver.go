// # internal/engine/resolver/resolver.go
package resolver

import (
	"sort"
	"strings"

	"shadow/internal/engine/resolver/drivers"
)

// Index resolves normalized specifiers against a fixed set of node keys.
// Keys are scanned in sorted order and the match rules are priority tiers,
// so a specifier always resolves to the same key for the same key set.
type Index struct {
	keys     []string
	stripped []string
}

func NewIndex(keys []string) *Index {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	stripped := make([]string, len(sorted))
	for i, key := range sorted {
		stripped[i] = drivers.StripScriptExtension(key)
	}
	return &Index{keys: sorted, stripped: stripped}
}

// Resolve returns the key spec refers to. Tiers, first match wins:
//
//	exact      key == spec
//	suffix     key ends with "/"+spec
//	extension  keys agree once script extensions are stripped
//	index      spec names a directory whose index file is key
func (x *Index) Resolve(spec string) (string, bool) {
	if spec == "" {
		return "", false
	}

	for _, key := range x.keys {
		if key == spec {
			return key, true
		}
	}

	for _, key := range x.keys {
		if strings.HasSuffix(key, "/"+spec) {
			return key, true
		}
	}

	bare := drivers.StripScriptExtension(spec)
	for i, key := range x.keys {
		if x.stripped[i] == bare {
			return key, true
		}
	}

	for i, key := range x.keys {
		if x.stripped[i] == bare+"/index" {
			return key, true
		}
	}

	return "", false
}

func (x *Index) Len() int {
	return len(x.keys)
}
