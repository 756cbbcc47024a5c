package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// VMImport is the import path of the VM linked into generated programs.
const VMImport = "github.com/Urethramancer/stackasm/vm"

// Fill holds the values substituted into a program template. Zero values
// render as empty text; slices are joined with newlines.
type Fill struct {
	Constants       []string
	BeforeRun       []string
	AfterRun        []string
	CompileCodeArgs string
}

const headerTemplate = `// Code generated by stackasm. DO NOT EDIT.

package main

import (
%s
	%q
)
`

const bodyTemplate = `
{{lines .Constants}}

func main() {
{{lines .BeforeRun}}
	status := %s({{.CompileCodeArgs}})
{{lines .AfterRun}}
	os.Exit(status)
}
`

var funcs = template.FuncMap{
	"lines": func(s []string) string {
		return strings.Join(s, "\n")
	},
}

// programTemplate returns the fixed template text for a linkage.
func programTemplate(l Linkage) string {
	var imports []string
	for _, imp := range l.imports() {
		imports = append(imports, fmt.Sprintf("\t%q", imp))
	}
	header := fmt.Sprintf(headerTemplate, strings.Join(imports, "\n")+"\n", VMImport)
	return header + fmt.Sprintf(bodyTemplate, l.entry())
}

// Render substitutes fill into text. Only the Fill fields are recognised;
// any other placeholder is an error.
func Render(text string, fill Fill) (string, error) {
	tmpl, err := template.New("program").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fill); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}
