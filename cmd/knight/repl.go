package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/knight"
)

// contPrompt is the prompt for continuation lines of an incomplete program.
const contPrompt = "... "

// promptReader feeds PROMPT from the REPL's line editor.
type promptReader struct {
	ln *liner.State
}

func (p promptReader) ReadLine() ([]byte, error) {
	line, err := p.ln.Prompt("")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return nil, io.EOF
		}
		return nil, err
	}
	return []byte(line), nil
}

// repl runs an interactive loop until end of input or QUIT.
func (a *app) repl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if a.cfg.History != "" {
		if f, err := os.Open(a.cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
		defer a.saveHistory(ln)
	}

	vm, err := a.newVM(promptReader{ln: ln})
	if err != nil {
		return err
	}
	defer vm.Close()
	fmt.Fprintf(a.stdout, "knight %s (%s)\n", knight.Version, knight.PlatformVersion())
	a.flush()
	for {
		src, ok := readProgram(ln, vm, a.cfg.Prompt)
		if !ok {
			fmt.Fprintln(a.stdout)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		r, err := vm.EvaluateString(src, "repl")
		a.flush()
		if code, ok := knight.QuitCode(err); ok {
			a.status = code
			return nil
		}
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			continue
		}
		fmt.Fprintln(a.stdout, r.String())
		a.flush()
		r.Release()
	}
}

// readProgram reads lines until they hold a complete expression or an error
// other than running out of input. It returns false at the end of input.
func readProgram(ln *liner.State, vm *knight.VM, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = contPrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return b.String(), b.Len() > 0
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(vm, b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src ends before its expression does.
func incomplete(vm *knight.VM, src string) bool {
	v, err := vm.ParseString(src, "repl")
	if err == nil {
		v.Release()
		return false
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func (a *app) saveHistory(ln *liner.State) {
	f, err := os.Create(a.cfg.History)
	if err != nil {
		a.logger.Warn("saving history", slog.String("path", a.cfg.History), slog.Any("err", err))
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		a.logger.Warn("saving history", slog.String("path", a.cfg.History), slog.Any("err", err))
	}
}
