package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCommand(t *testing.T, dir string, cmd *cobra.Command, args ...string) string {
	t.Helper()

	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	defer func() {
		if err := os.Chdir(prevWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}()

	cmd.SetArgs(args)

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %s failed (%v): %v\noutput:\n%s", cmd.Name(), args, err, output.String())
	}

	return output.String()
}

func TestPlumbingEndToEnd(t *testing.T) {
	dir := t.TempDir()

	out := runCommand(t, dir, newInitCmd())
	if !strings.Contains(out, "initialized empty grit repository") {
		t.Fatalf("init output = %q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello world\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	// Known SHA-1 of "blob 12\x00hello world\n".
	const wantBlob = "3b18e512dba79e4c8300dd08aeb37f8e728b8dad"
	out = runCommand(t, dir, newHashObjectCmd(), "-w", "hello.txt")
	if strings.TrimSpace(out) != wantBlob {
		t.Fatalf("hash-object = %q, want %s", out, wantBlob)
	}

	out = runCommand(t, dir, newCatFileCmd(), "-t", wantBlob[:8])
	if strings.TrimSpace(out) != "blob" {
		t.Fatalf("cat-file -t = %q", out)
	}
	out = runCommand(t, dir, newCatFileCmd(), "-s", wantBlob)
	if strings.TrimSpace(out) != "12" {
		t.Fatalf("cat-file -s = %q", out)
	}
	out = runCommand(t, dir, newCatFileCmd(), "-p", wantBlob)
	if out != "hello world\n" {
		t.Fatalf("cat-file -p = %q", out)
	}

	treeHash := strings.TrimSpace(runCommand(t, dir, newWriteTreeCmd()))
	if len(treeHash) != 40 {
		t.Fatalf("write-tree = %q", treeHash)
	}

	out = runCommand(t, dir, newLsTreeCmd(), treeHash)
	if !strings.Contains(out, "100644 blob "+wantBlob+"\thello.txt") {
		t.Fatalf("ls-tree output:\n%s", out)
	}
	out = runCommand(t, dir, newLsTreeCmd(), "--name-only", treeHash)
	if strings.TrimSpace(out) != "hello.txt" {
		t.Fatalf("ls-tree --name-only = %q", out)
	}

	commitHash := strings.TrimSpace(runCommand(t, dir, newCommitTreeCmd(), "-m", "import", treeHash))
	out = runCommand(t, dir, newCatFileCmd(), "-p", commitHash)
	if !strings.HasPrefix(out, "tree "+treeHash+"\n") {
		t.Fatalf("commit body:\n%s", out)
	}
	if !strings.Contains(out, "\n\nimport\n") {
		t.Fatalf("commit message missing:\n%s", out)
	}
}

func TestWriteTreeDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	runCommand(t, dir, newInitCmd())
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	dry := strings.TrimSpace(runCommand(t, dir, newWriteTreeCmd(), "--dry-run"))

	objects := filepath.Join(dir, ".grit", "objects")
	entries, err := os.ReadDir(objects)
	if err != nil {
		t.Fatalf("read objects dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run left %d entries in %s", len(entries), objects)
	}

	// The real run yields the same hash the dry run predicted.
	wet := strings.TrimSpace(runCommand(t, dir, newWriteTreeCmd()))
	if wet != dry {
		t.Fatalf("dry run hash %s != real hash %s", dry, wet)
	}
}

func TestCommitCmdUpdatesBranch(t *testing.T) {
	dir := t.TempDir()
	runCommand(t, dir, newInitCmd())
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out := runCommand(t, dir, newCommitCmd(), "-m", "initial")
	if !strings.HasPrefix(out, "[main ") || !strings.Contains(out, "] initial") {
		t.Fatalf("commit output = %q", out)
	}

	ref, err := os.ReadFile(filepath.Join(dir, ".grit", "refs", "heads", "main"))
	if err != nil {
		t.Fatalf("read branch ref: %v", err)
	}
	if len(strings.TrimSpace(string(ref))) != 40 {
		t.Fatalf("branch ref = %q", ref)
	}
}
