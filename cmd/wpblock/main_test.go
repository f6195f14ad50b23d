package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OVECJOE/wp-block-parser/store"
)

const sampleDoc = `<!-- wp:core/group {"align":"wide"} -->
<!-- wp:core/paragraph {"align":"left"} -->Hello<!-- /wp:core/paragraph -->
<!-- wp:core/spacer {"height":20} /-->
<!-- /wp:core/group -->
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "post.html")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestReadInputsFileAndURL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.html")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	for _, arg := range []string{path, "file://" + path} {
		buf, err := readInputs(ctx, []string{arg}, nil)
		if err != nil {
			t.Fatalf("readInputs %s: %v", arg, err)
		}
		if string(buf) != "hello" {
			t.Fatalf("unexpected content for %s: %q", arg, string(buf))
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/post" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<!-- wp:more /-->"))
	}))
	defer srv.Close()
	buf, err := readInputs(ctx, []string{srv.URL + "/post"}, nil)
	if err != nil {
		t.Fatalf("readInputs http: %v", err)
	}
	if string(buf) != "<!-- wp:more /-->" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
	if _, err := readInputs(ctx, []string{srv.URL + "/missing"}, nil); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := readInputs(ctx, []string{filepath.Join(dir, "missing.html")}, nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if _, err := readInputs(ctx, []string{"  "}, nil); err == nil {
		t.Fatalf("expected error for empty argument")
	}
}

func TestReadInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.html")
	second := filepath.Join(dir, "b.html")
	if err := os.WriteFile(first, []byte("one "), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("two"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	buf, err := readInputs(context.Background(), []string{first, second}, nil)
	if err != nil {
		t.Fatalf("readInputs concat: %v", err)
	}
	if string(buf) != "one two" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestReadInputsStdin(t *testing.T) {
	buf, err := readInputs(context.Background(), nil, strings.NewReader("piped"))
	if err != nil {
		t.Fatalf("readInputs stdin: %v", err)
	}
	if string(buf) != "piped" {
		t.Fatalf("unexpected stdin content: %q", string(buf))
	}
}

func TestRunJSON(t *testing.T) {
	code, out, errOut := runCLI(t, "", "--format", "json", writeSample(t))
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{`"name": "root"`, `"name": "core/group"`, `"align": "left"`, `"height": 20`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestRunQueryMarkup(t *testing.T) {
	code, out, errOut := runCLI(t, sampleDoc, "-f", "markup", "--query", "align=left")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "<!-- wp:core/paragraph {\"align\":\"left\"} -->Hello<!-- /wp:core/paragraph -->\n"
	if out != want {
		t.Fatalf("unexpected markup:\n%q\nwant\n%q", out, want)
	}
}

func TestRunSubtreeOutline(t *testing.T) {
	code, out, errOut := runCLI(t, sampleDoc, "--subtree", "core/spacer", "-w", "60")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "core/spacer [") || strings.TrimSpace(lines[1]) != "height=20" {
		t.Fatalf("unexpected outline:\n%s", out)
	}

	code, _, errOut = runCLI(t, sampleDoc, "--subtree", "core/missing")
	if code != 1 || !strings.Contains(errOut, `no blocks match "core/missing"`) {
		t.Fatalf("expected missing subtree error, got %d %q", code, errOut)
	}
}

func TestRunTokens(t *testing.T) {
	code, out, errOut := runCLI(t, "<!-- wp:more /-->", "--format", "tokens")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "1:1\tBLOCK_SELF_CLOSING_TAG(more)[0:17]\n" {
		t.Fatalf("unexpected tokens: %q", out)
	}

	code, _, _ = runCLI(t, "", "--format", "tokens", "--query", "more")
	if code != 2 {
		t.Fatalf("expected usage exit for tokens with query, got %d", code)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if code, _, _ := runCLI(t, "", "--format", "html"); code != 2 {
		t.Fatalf("expected exit 2 for bad format, got %d", code)
	}
	code, _, errOut := runCLI(t, "\x00\x01binary")
	if code != 1 || !strings.Contains(errOut, "binary input") {
		t.Fatalf("expected binary input error, got %d %q", code, errOut)
	}
	code, _, errOut = runCLI(t, `<!-- wp:a {"x": } /-->`, "-f", "json")
	if code != 1 || !strings.Contains(errOut, "render:") {
		t.Fatalf("expected attribute error, got %d %q", code, errOut)
	}
}

func TestRunConfigAndStore(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "out.db")
	cfgPath := filepath.Join(dir, "wpblock.toml")
	cfg := "format = \"yaml\"\n\n[store]\ndriver = \"sqlite\"\npath = \"" + filepath.ToSlash(dbPath) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	outPath := filepath.Join(dir, "nested", "out.yaml")

	code, _, errOut := runCLI(t, sampleDoc, "--config", cfgPath, "--key", "posts/1", "-o", outPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(written), "name: core/group") {
		t.Fatalf("expected yaml output, got:\n%s", written)
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	doc, err := s.Load(context.Background(), "posts/1")
	if err != nil {
		t.Fatalf("load stored output: %v", err)
	}
	if doc.Format != "yaml" || doc.Data != string(written) {
		t.Fatalf("stored document differs: %+v", doc)
	}
}

func TestNormalizePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := normalizePath("~/x.html"); got != filepath.Join(home, "x.html") {
		t.Fatalf("unexpected path %q", got)
	}
}
