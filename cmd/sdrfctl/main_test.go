package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = "Source Name\tProtocol REF\tExtract Name\tTerm Source REF\n" +
	"s1\tgrow\te1\tMO\n"

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SDRFCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("SDRFCORE_SQLITE_PATH", filepath.Join(dir, "experiments.db"))
	t.Setenv("SDRFCORE_BLOB_DRIVER", "fs")
	t.Setenv("SDRFCORE_BLOB_FS_ROOT", filepath.Join(dir, "blobs"))
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func storedID(t *testing.T, parseOutput string) string {
	t.Helper()
	fields := strings.Fields(parseOutput)
	for i, f := range fields {
		if f == "experiment" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	t.Fatalf("no experiment ID in output %q", parseOutput)
	return ""
}

func TestParseListShowFetch(t *testing.T) {
	setupEnv(t)
	doc := writeFile(t, "sample.sdrf", sampleDocument)

	out, err := runCommand(t, "parse", doc, "--name", "sample")
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 slots") {
		t.Fatalf("parse output = %q", out)
	}
	id := storedID(t, out)

	out, err = runCommand(t, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "sample") {
		t.Fatalf("list output = %q", out)
	}

	out, err = runCommand(t, "show", id)
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "grow") {
		t.Fatalf("show output = %q", out)
	}

	out, err = runCommand(t, "show", id, "--json")
	if err != nil {
		t.Fatalf("show --json: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"slots"`) {
		t.Fatalf("show --json output = %q", out)
	}

	out, err = runCommand(t, "fetch", id)
	if err != nil {
		t.Fatalf("fetch: %v\n%s", err, out)
	}
	if out != sampleDocument {
		t.Fatalf("fetch output = %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	setupEnv(t)
	doc := writeFile(t, "sample.sdrf", sampleDocument)
	terms := writeFile(t, "terms.toml", "[vocabularies.MO]\ne1 = \"MO:9\"\n")

	out, err := runCommand(t, "parse", doc)
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	id := storedID(t, out)

	out, err = runCommand(t, "validate", id, "--terms", terms)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "resolved 1") {
		t.Fatalf("validate output = %q", out)
	}
}

func TestValidateCommandFailsClosed(t *testing.T) {
	setupEnv(t)
	doc := writeFile(t, "sample.sdrf", sampleDocument)
	terms := writeFile(t, "terms.toml", "[vocabularies.OBI]\nscan = \"OBI:77\"\n")

	out, err := runCommand(t, "parse", doc)
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	id := storedID(t, out)

	if out, err = runCommand(t, "validate", id, "--terms", terms); err == nil {
		t.Fatalf("unknown vocabulary validated:\n%s", out)
	}
}

func TestParseRejectsBadDocument(t *testing.T) {
	setupEnv(t)
	doc := writeFile(t, "bad.sdrf", "Source Name\ns1\n")
	if out, err := runCommand(t, "parse", doc); err == nil {
		t.Fatalf("bad document accepted:\n%s", out)
	}
}
