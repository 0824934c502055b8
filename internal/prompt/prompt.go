// Package prompt reads operator confirmations from a line-oriented reader.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type lineResult struct {
	line string
	err  error
}

// Reader reads one line at a time and gives up when the context is done.
// A read abandoned by a canceled context stays pending and its line is
// returned by the next ReadLine, so no input is lost or read twice.
// Lines are only read on demand; nothing beyond the requested line is consumed.
// A Reader is not safe for concurrent use.
type Reader struct {
	r       *bufio.Reader
	pending chan lineResult
}

// NewReader wraps r. A *bufio.Reader is used as is.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. EOF after a partial
// line or on an empty stream is not an error.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.pending == nil {
		ch := make(chan lineResult, 1)
		r.pending = ch
		go func() {
			line, err := readLine(r.r)
			ch <- lineResult{line: line, err: err}
		}()
	}

	select {
	case res := <-r.pending:
		r.pending = nil
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pause prints message and blocks until a line (or EOF) is read.
func Pause(ctx context.Context, r *Reader, w io.Writer, message string) error {
	fmt.Fprint(w, message)
	if _, err := r.ReadLine(ctx); err != nil {
		return fmt.Errorf("waiting for confirmation: %w", err)
	}
	return nil
}

// Confirm asks a yes/no question that defaults to no. Only "y" or "Y" is
// affirmative; empty input and EOF are not.
func Confirm(ctx context.Context, r *Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := r.ReadLine(ctx)
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
