// Package binary locates the external load-generation executable.
//
// Discovery order: caller-supplied roots, a bin/ directory bundled next to
// the running executable, the system PATH, then common install locations.
// The candidate list is injected rather than hard-coded so tests can point
// discovery at a temp directory.
package binary

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// NotFoundError reports a failed discovery, carrying every location that
// was checked so callers can show an actionable message.
type NotFoundError struct {
	Name    string
	Checked []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s binary not found; checked: %s",
		e.Name, strings.Join(e.Checked, ", "))
}

// Find returns the absolute path of the named executable, searching
// extraRoots first. On failure it returns a *NotFoundError listing the
// checked locations.
func Find(name string, extraRoots []string) (string, error) {
	fileName := executableName(name)
	var checked []string

	roots := append([]string{}, extraRoots...)
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		roots = append(roots, filepath.Join(dir, "bin"), dir)
	}

	for _, root := range roots {
		candidate := filepath.Join(root, fileName)
		checked = append(checked, candidate)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	checked = append(checked, "$PATH")

	for _, dir := range commonInstallDirs() {
		candidate := filepath.Join(dir, fileName)
		checked = append(checked, candidate)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", &NotFoundError{Name: name, Checked: checked}
}

// executableName appends .exe on Windows.
func executableName(name string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		return name + ".exe"
	}
	return name
}

// isExecutable reports whether path exists as a regular file. The execute
// bit is not checked on Windows, where it does not exist.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// commonInstallDirs returns the well-known install locations for the
// current platform. oha is commonly installed via cargo or homebrew.
func commonInstallDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".cargo", "bin"))
	}
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/bin", "/usr/local/bin")
	case "windows":
		dirs = append(dirs, filepath.Join(os.Getenv("ProgramFiles"), "oha"))
	default:
		dirs = append(dirs, "/usr/local/bin", "/usr/bin")
	}
	return dirs
}
