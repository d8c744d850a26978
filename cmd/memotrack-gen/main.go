// Command memotrack-gen is a scaffolding skeleton for the boilerplate a
// real `#[track]`/`#[memoize]` macro would emit in the original crate:
// given a small description of a tracked type's methods, it prints Go
// source holding one Call variant struct per method (with its IsMutable
// method) and an empty Surface wrapper struct around a memo.Handle[T].
// It does not emit the variants' Digest methods, the TryCall/TryCallMut
// dispatch, or the surface methods that trackeddemo/ hand-writes for
// Files, Image and Chain.
//
// This tool is explicitly out of the core memoization budget: it is a
// convenience generator, not part of the runtime, and its own code
// generation logic is not held to the same scrutiny as pkg/memo.
//
// Usage:
//
//	memotrack-gen -in tracked.json -out surface_gen.go
//
// © 2025 memotrack authors. MIT License.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"os"
	"strings"
	"text/template"
)

// typeDesc is the small JSON description read from -in. It deliberately
// supports only the shapes trackeddemo/ already needs by hand: a
// receiver type name, a package name, and a list of tracked methods
// each with a Go argument list and return type. Mutable methods are
// named in Mutators; everything else is assumed immutable.
type typeDesc struct {
	Package string       `json:"package"`
	Type    string       `json:"type"`
	Methods []methodDesc `json:"methods"`
	Mutators []string    `json:"mutators"`
}

type methodDesc struct {
	Name    string      `json:"name"`
	Args    []argDesc   `json:"args"`
	Returns string      `json:"returns"`
}

type argDesc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (m methodDesc) callTypeName() string {
	return lowerFirst(m.Name) + "Call"
}

func (m methodDesc) argList() string {
	parts := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		parts = append(parts, fmt.Sprintf("%s %s", a.Name, a.Type))
	}
	return strings.Join(parts, ", ")
}

func (m methodDesc) fieldList() string {
	parts := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		parts = append(parts, fmt.Sprintf("%s %s", strings.Title(a.Name), a.Type))
	}
	return strings.Join(parts, "\n\t")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (d typeDesc) isMutator(name string) bool {
	for _, m := range d.Mutators {
		if m == name {
			return true
		}
	}
	return false
}

var tmpl = template.Must(template.New("surface").Funcs(template.FuncMap{
	"isMutator": func(d typeDesc, name string) bool { return d.isMutator(name) },
}).Parse(`// Code generated by memotrack-gen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/pkg/memo"
)

{{range .Methods}}
type {{.callTypeName}} struct {
	{{.fieldList}}
}

func (c {{.callTypeName}}) IsMutable() bool { return {{isMutator $ .Name}} }
{{end}}

// {{.Type}}Surface wraps a tracked {{.Type}}; its tracked methods are
// not generated.
type {{.Type}}Surface struct {
	inner memo.Handle[{{.Type}}]
}
`))

func generate(d typeDesc) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Surface the unformatted source too; a template bug is easier
		// to diagnose with the raw text in front of you.
		return buf.Bytes(), fmt.Errorf("gofmt: %w", err)
	}
	return formatted, nil
}

func main() {
	in := flag.String("in", "", "path to a tracked-type JSON description")
	out := flag.String("out", "", "output path for the generated Go source (defaults to stdout)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "memotrack-gen: -in is required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		fatal(err)
	}

	var desc typeDesc
	if err := json.Unmarshal(raw, &desc); err != nil {
		fatal(fmt.Errorf("parsing %s: %w", *in, err))
	}

	src, err := generate(desc)
	if err != nil {
		fatal(err)
	}

	if *out == "" {
		os.Stdout.Write(src)
		return
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "memotrack-gen:", err)
	os.Exit(1)
}
