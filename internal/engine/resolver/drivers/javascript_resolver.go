package drivers

import (
	"path"
	"strings"
)

// ScriptExtensions are the suffixes a normalized specifier may already carry.
var ScriptExtensions = []string{".ts", ".js", ".tsx", ".jsx"}

// CanonicalExtension is appended to specifiers written without a suffix.
const CanonicalExtension = ".ts"

type JavaScriptResolver struct{}

func NewJavaScriptResolver() *JavaScriptResolver {
	return &JavaScriptResolver{}
}

// NormalizeSpecifier turns a raw relative import written in importer into a
// workspace-relative key candidate. Bare package specifiers are rejected.
//
//	importer "src/app.ts", spec "./util"      -> "src/util.ts"
//	importer "src/app.ts", spec "../lib/x.js" -> "lib/x.js"
func (r *JavaScriptResolver) NormalizeSpecifier(importer, spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	spec = strings.Trim(spec, "\"'`")
	if !strings.HasPrefix(spec, ".") {
		return "", false
	}

	joined := path.Join(path.Dir(importer), spec)
	if joined == "." || joined == "" {
		return "", false
	}
	if !HasScriptExtension(joined) {
		joined += CanonicalExtension
	}
	return joined, true
}

func HasScriptExtension(p string) bool {
	ext := path.Ext(p)
	for _, candidate := range ScriptExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// StripScriptExtension removes a recognized script suffix, leaving others intact.
func StripScriptExtension(p string) string {
	if HasScriptExtension(p) {
		return strings.TrimSuffix(p, path.Ext(p))
	}
	return p
}
