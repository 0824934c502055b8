package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/catdiffuse/catdiffuse-setup/internal/prompt"
	"github.com/catdiffuse/catdiffuse-setup/internal/status"
)

// File describes one template/target pair.
type File struct {
	// Dir resolves relative Template and Target paths.
	Dir      string
	Template string
	Target   string
	// Instructions are printed after the target is created.
	Instructions []string
	// Perm overrides the template's permission bits when non-zero.
	Perm os.FileMode
}

// Result holds the outcome of IfAbsent.
type Result struct {
	Target  string // resolved path
	Created bool
}

func (f File) resolve(p string) string {
	if filepath.IsAbs(p) || f.Dir == "" {
		return p
	}
	return filepath.Join(f.Dir, p)
}

// IfAbsent copies the template to the target when the target does not exist,
// prints the instructions and waits for the operator to confirm once. When the
// target exists it reports so and changes nothing. When the pause fails the
// created file is kept and reported in the result alongside the error.
func IfAbsent(ctx context.Context, p *status.Printer, r *prompt.Reader, f File) (*Result, error) {
	target := f.resolve(f.Target)
	result := &Result{Target: target}

	if _, err := os.Lstat(target); err == nil {
		p.Skip("%s already exists", f.Target)
		return result, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", target, err)
	}

	template := f.resolve(f.Template)
	if err := copyFile(template, target, f.Perm); err != nil {
		return nil, err
	}
	result.Created = true

	p.OK("Created %s from %s", f.Target, f.Template)
	w := p.Writer()
	for _, line := range f.Instructions {
		fmt.Fprintf(w, "         %s\n", line)
	}

	if err := prompt.Pause(ctx, r, w, fmt.Sprintf("\nPress Enter once you have edited %s... ", f.Target)); err != nil {
		return result, err
	}
	fmt.Fprintln(w)
	return result, nil
}

// copyFile writes src's bytes to a new file dst. dst must not exist.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening template %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("reading template %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("template %s is not a regular file", src)
	}
	if perm == 0 {
		perm = info.Mode().Perm()
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	// The umask may have narrowed perm on creation.
	if err := chmod(dst, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	return nil
}

// chmod is a no-op on Windows, which lacks Unix permission bits.
func chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
