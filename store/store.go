// Package store implements the write path (spec.md §4.10): content
// hashing for optimistic concurrency, dot-path amendment with tri-state
// value semantics, and an atomic write-temp-then-rename to disk. It has
// no knowledge of lexing/parsing; callers in pipeline hand it an already
// validated ast.Document and get back a mutated one plus diagnostics.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// allowedSuffixes is the file-extension whitelist, spec.md §4.10/§6.
// ".oct.md" is checked before ".md" only for clarity; both are plain
// suffix matches so order has no effect on the result.
var allowedSuffixes = []string{".oct.md", ".octave", ".md"}

// ValidatePath enforces the extension whitelist and the path-traversal
// rejection spec.md §4.10 requires before any file-path input is used. The
// ".." scan runs on the raw, as-given path: filepath.Clean eliminates ".."
// elements that begin a rooted path (e.g. "/../../etc/passwd.oct.md" ->
// "/etc/passwd.oct.md"), so cleaning first would let spec.md §8 scenario
// 9's exact traversal example slip through with no ".." segment left to
// catch.
func ValidatePath(path string) error {
	ok := false
	for _, suf := range allowedSuffixes {
		if strings.HasSuffix(path, suf) {
			ok = true
			break
		}
	}
	if !ok {
		return ast.NewError(ast.CodeEPath, token.Position{}, fmt.Sprintf("path %q has no allowed extension (%s)", path, strings.Join(allowedSuffixes, ", ")))
	}

	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return ast.NewError(ast.CodeEPath, token.Position{}, fmt.Sprintf("path %q escapes its base directory", path))
		}
	}
	return nil
}

// Hash returns the canonical content-addressing hash for a document's
// canonical text, used as both the CAS base_hash a writer supplies and
// the canonical_hash a write/validate call returns.
func Hash(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// WriteAtomic performs the write-temp-then-rename spec.md §4.10/§5
// describes: the new content never appears at targetPath until the
// rename, which is atomic on a POSIX filesystem, so a reader never
// observes a partial write and a crash mid-write leaves the original
// file untouched.
func WriteAtomic(targetPath string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(targetPath)
	tmp, err := os.CreateTemp(dir, ".oct-write-*")
	if err != nil {
		return ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("create temp file in %q: %v", dir, err))
	}
	tmpPath := tmp.Name()
	removeTmp := true
	defer func() {
		if removeTmp {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("write temp file: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("close temp file: %v", err))
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("chmod temp file: %v", err))
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		return ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("rename into place: %v", err))
	}
	removeTmp = false
	return nil
}

// CheckCAS enforces the base_hash guard: if baseHash is empty the caller
// supplied no CAS token and any current content is accepted (blind
// overwrite); otherwise it must equal the canonical hash of currentContent.
func CheckCAS(baseHash, currentContent string) error {
	if baseHash == "" {
		return nil
	}
	if baseHash != Hash(currentContent) {
		return ast.NewError(ast.CodeEHash, token.Position{}, "base_hash does not match current file hash")
	}
	return nil
}
