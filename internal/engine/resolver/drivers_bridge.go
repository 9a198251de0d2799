package resolver

import "shadow/internal/engine/resolver/drivers"

// JavaScriptResolver normalizes relative ts/js/tsx/jsx import specifiers.
type JavaScriptResolver = drivers.JavaScriptResolver

func NewJavaScriptResolver() *JavaScriptResolver {
	return drivers.NewJavaScriptResolver()
}
