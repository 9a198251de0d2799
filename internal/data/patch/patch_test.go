package patch

import (
	"reflect"
	"testing"

	"shadow/internal/core/errors"
)

const gitPatch = `diff --git a/src/b.ts b/src/b.ts
index 1111111..2222222 100644
--- a/src/b.ts
+++ b/src/b.ts
@@ -1,2 +1,3 @@
 import { c } from './c'
-export function b() {}
+export function b() { return 1 }
+export function extra() {}
diff --git a/src/new.ts b/src/new.ts
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/src/new.ts
@@ -0,0 +1 @@
+export const x = 1
diff --git a/src/gone.js b/src/gone.js
deleted file mode 100644
index 4444444..0000000
--- a/src/gone.js
+++ /dev/null
@@ -1 +0,0 @@
-module.exports = {}
`

func TestParse_GitPatch(t *testing.T) {
	stats, err := Parse(gitPatch)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []FileStat{
		{OldPath: "src/b.ts", NewPath: "src/b.ts", LinesAdded: 2, LinesRemoved: 1},
		{NewPath: "src/new.ts", LinesAdded: 1},
		{OldPath: "src/gone.js", LinesRemoved: 1},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("unexpected stats\nwant %+v\ngot  %+v", want, stats)
	}
	if stats[2].Path() != "src/gone.js" {
		t.Errorf("expected deleted file to report its old path, got %q", stats[2].Path())
	}
}

func TestChangedFiles(t *testing.T) {
	got, err := ChangedFiles(gitPatch)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/b.ts", "src/new.ts", "src/gone.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestChangedFiles_PlainUnifiedDiff(t *testing.T) {
	plain := "--- lib/a.ts\t2026-01-01 10:00:00.000000000 +0000\n" +
		"+++ lib/a.ts\t2026-01-02 10:00:00.000000000 +0000\n" +
		"@@ -1 +1 @@\n" +
		"-a\n" +
		"+b\n"
	got, err := ChangedFiles(plain)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"lib/a.ts"}) {
		t.Errorf("unexpected files %v", got)
	}
}

func TestChangedFiles_Empty(t *testing.T) {
	got, err := ChangedFiles("")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	bad := "--- a/x.ts\n+++ b/x.ts\n@@ -one +two @@\n-a\n+b\n"
	if _, err := Parse(bad); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}
