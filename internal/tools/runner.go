// Package tools implements the interactive tool panel: activation driven by
// mentor directives, a sandboxed Go code runner and the pixel-art tool
// state.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"mentorlab/internal/logging"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// CodeRunner executes learner code snippets in a yaegi interpreter.
// Interpreting avoids compiler round-trips and keeps execution sandboxed:
// only whitelisted stdlib packages are importable, and no filesystem,
// network or exec access is exposed.
type CodeRunner struct {
	allowedPackages map[string]bool
}

// NewCodeRunner creates a runner with the safe-package whitelist.
func NewCodeRunner() *CodeRunner {
	return &CodeRunner{
		allowedPackages: map[string]bool{
			"strings":         true,
			"strconv":         true,
			"fmt":             true,
			"math":            true,
			"math/rand":       true,
			"regexp":          true,
			"encoding/json":   true,
			"encoding/base64": true,
			"time":            true,
			"sort":            true,
			"bytes":           true,
			"errors":          true,
			"unicode":         true,

			// Blocked: os, os/exec, net, net/http, syscall, unsafe,
			// io/ioutil, path/filepath - anything that escapes the sandbox.
		},
	}
}

// Run evaluates a snippet and returns its combined output. Snippets are
// scripts: statements execute top to bottom, and a defined main() is called
// afterwards. Execution is bounded by ctx.
func (r *CodeRunner) Run(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("no code to run")
	}
	if err := r.validateImports(code); err != nil {
		return "", err
	}

	var out bytes.Buffer
	i := interp.New(interp.Options{Stdout: &out, Stderr: &out})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", fmt.Errorf("failed to load stdlib: %w", err)
	}

	type evalResult struct {
		val string
		err error
	}
	done := make(chan evalResult, 1)

	go func() {
		v, err := i.Eval(code)
		if err == nil && strings.Contains(code, "func main") && !strings.Contains(code, "package main") {
			_, err = i.Eval("main()")
		}
		res := evalResult{err: err}
		if err == nil && out.Len() == 0 && v.IsValid() && v.CanInterface() {
			res.val = fmt.Sprintf("%v", v.Interface())
		}
		done <- res
	}()

	select {
	case res := <-done:
		if res.err != nil {
			logging.ToolsError("code run failed: %v", res.err)
			return out.String(), fmt.Errorf("code evaluation failed: %w", res.err)
		}
		if out.Len() > 0 {
			return out.String(), nil
		}
		return res.val, nil
	case <-ctx.Done():
		logging.ToolsError("code run timed out")
		return "", fmt.Errorf("code execution timed out: %w", ctx.Err())
	}
}

// validateImports rejects snippets importing anything off the whitelist.
func (r *CodeRunner) validateImports(code string) error {
	var imports []string
	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock {
			if strings.HasPrefix(trimmed, ")") {
				inBlock = false
				continue
			}
			if pkg := strings.Trim(trimmed, `"`); pkg != "" {
				imports = append(imports, pkg)
			}
			continue
		}
		if strings.HasPrefix(trimmed, "import ") {
			pkg := strings.TrimPrefix(trimmed, "import ")
			imports = append(imports, strings.Trim(pkg, `"`))
		}
	}

	var forbidden []string
	for _, pkg := range imports {
		if !r.allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v (sandbox allows only safe stdlib packages)", forbidden)
	}
	return nil
}
