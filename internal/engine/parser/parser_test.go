package parser

import (
	"reflect"
	"testing"

	"shadow/internal/core/errors"
)

func childNames(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestScriptScanner_Functions(t *testing.T) {
	content := `
function hello() {
    return "world";
}

export function goodbye() {
    return "farewell";
}

const arrow = () => {
    return "arrow";
};
`
	root, err := NewScriptScanner().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if root.Kind != KindProgram {
		t.Fatalf("expected Program root, got %s", root.Kind)
	}
	if root.HasName() {
		t.Errorf("expected unnamed root, got %q", root.Name)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d: %v", len(root.Children), childNames(root))
	}

	want := []struct {
		name string
		line int
	}{
		{"hello", 2},
		{"goodbye", 6},
		{"arrow", 10},
	}
	for i, w := range want {
		c := root.Children[i]
		if c.Kind != KindFunction || c.Name != w.name {
			t.Errorf("child %d: expected FunctionDeclaration %s, got %s %s", i, w.name, c.Kind, c.Name)
		}
		if c.StartLine != w.line || c.EndLine != w.line {
			t.Errorf("child %d: expected line %d, got %d-%d", i, w.line, c.StartLine, c.EndLine)
		}
	}
}

func TestScriptScanner_ClassesAndImports(t *testing.T) {
	content := "import { foo } from './a';\n" +
		"import * as path from \"path\"\n" +
		"export class Service extends Base {\n" +
		"class Helper{\n" +
		"import './side-effect'\n"

	root, err := NewScriptScanner().Parse([]byte(content))
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		got = append(got, string(c.Kind)+":"+c.Name)
	}
	want := []string{
		"ImportDeclaration:./a",
		"ImportDeclaration:path",
		"ClassDeclaration:Service",
		"ClassDeclaration:Helper",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected children\nwant %v\ngot  %v", want, got)
	}
	if root.EndLine != 5 {
		t.Errorf("expected root to span 5 lines, got %d", root.EndLine)
	}
}

func TestScriptScanner_SkipsMalformedLines(t *testing.T) {
	content := "function (x) {}\nclass {\nimport from\nexport default foo\n"
	root, err := NewScriptScanner().Parse([]byte(content))
	if err != nil {
		t.Fatalf("expected malformed lines to be skipped silently, got %v", err)
	}
	if len(root.Children) != 0 {
		t.Errorf("expected no declarations, got %v", childNames(root))
	}
}

func TestScriptScanner_ExtractImports(t *testing.T) {
	content := `import { foo } from './a'; export function bar(){ foo(); }
import React from 'react'
const util = require("../lib/util")
const fs = require('fs')
import type { T } from "./types.js"
`
	got := NewScriptScanner().ExtractImports([]byte(content))
	want := []string{"./a", "../lib/util", "./types.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestScriptScanner_ExtractExports(t *testing.T) {
	content := `export function foo(){}
export async function load(url) {}
export class Store {
export const LIMIT = 10
export let counter: number = 0
export default foo
export { a, b }
const hidden = 1
`
	got := NewScriptScanner().ExtractExports([]byte(content))
	want := []string{"foo", "load", "Store", "LIMIT", "counter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\r\nb\r\n", 2},
		{"a\n\nb", 3},
	}
	for _, tt := range tests {
		if got := len(SplitLines([]byte(tt.in))); got != tt.want {
			t.Errorf("SplitLines(%q): expected %d lines, got %d", tt.in, tt.want, got)
		}
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := NewDefaultRegistry()

	for _, path := range []string{"a.ts", "dir/b.js", "C.TSX", "d.jsx"} {
		if !r.IsSupportedPath(path) {
			t.Errorf("expected %s to be supported", path)
		}
		if _, err := r.Parse(path, []byte("function f() {}")); err != nil {
			t.Errorf("Parse(%s) failed: %v", path, err)
		}
	}

	for _, path := range []string{"main.go", "Makefile", "notes."} {
		_, err := r.Parse(path, []byte("function f() {}"))
		if !errors.IsCode(err, errors.CodeNotSupported) {
			t.Errorf("Parse(%s): expected NOT_SUPPORTED, got %v", path, err)
		}
	}

	want := []string{"js", "jsx", "ts", "tsx"}
	if got := r.SupportedExtensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistry_RegisterExtensionsSubset(t *testing.T) {
	r := NewRegistry()
	r.RegisterExtensions(NewScriptScanner(), ".ts", "")

	if _, ok := r.ScannerFor("ts"); !ok {
		t.Error("expected ts scanner")
	}
	if _, ok := r.ScannerFor("js"); ok {
		t.Error("expected js to stay unregistered")
	}
	if _, ok := r.ExtractorFor("ts"); !ok {
		t.Error("expected script scanner to provide dependency extraction")
	}
	if Extension("noext") != "" {
		t.Error("expected empty extension for path without suffix")
	}
}
