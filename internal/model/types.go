// Package model holds the records produced by a source scan.
package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Property is one declared val/var. An empty Type means no type was written.
type Property struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// HasType reports whether the declaration carried an explicit type.
func (p Property) HasType() bool {
	return p.Type != ""
}

func (p Property) String() string {
	if !p.HasType() {
		return p.Name
	}
	return p.Name + ": " + p.Type
}

// SourceClass is one discovered type declaration.
//
// Values are treated as immutable: WithImports and WithProperties return a
// new record and leave the receiver untouched.
type SourceClass struct {
	// File is slash-separated and relative to the scan root.
	File string `json:"file" yaml:"file"`
	// Package is empty when the file has no package declaration.
	Package   string `json:"package,omitempty" yaml:"package,omitempty"`
	ClassName string `json:"class_name" yaml:"class_name"`
	// Imports is sorted and holds no duplicates.
	Imports []string `json:"imports" yaml:"imports"`
	// Properties is ordered by name then type and holds no duplicates.
	Properties []Property `json:"properties" yaml:"properties"`
}

// NewSourceClass creates a base record with empty imports and properties.
func NewSourceClass(file, pkg, className string) SourceClass {
	return SourceClass{
		File:       file,
		Package:    pkg,
		ClassName:  className,
		Imports:    []string{},
		Properties: []Property{},
	}
}

// WithImports returns a copy of c whose imports are replaced by the
// deduplicated, sorted contents of imports.
func (c SourceClass) WithImports(imports []string) SourceClass {
	c.Imports = NormalizeImports(imports)
	return c
}

// WithProperties returns a copy of c whose properties are replaced by the
// deduplicated, sorted contents of props.
func (c SourceClass) WithProperties(props []Property) SourceClass {
	c.Properties = NormalizeProperties(props)
	return c
}

// QualifiedName is package.ClassName, or just ClassName without a package.
func (c SourceClass) QualifiedName() string {
	if c.Package == "" {
		return c.ClassName
	}
	return c.Package + "." + c.ClassName
}

// String renders the record on a single line for display.
func (c SourceClass) String() string {
	pkg := c.Package
	if pkg == "" {
		pkg = "null"
	}

	props := make([]string, len(c.Properties))
	for i, p := range c.Properties {
		props[i] = p.String()
	}

	return fmt.Sprintf("SourceClass(file=%s, package=%s, className=%s, imports=[%s], properties=[%s])",
		c.File, pkg, c.ClassName, strings.Join(c.Imports, ", "), strings.Join(props, ", "))
}

// Language names the source language of the record's file, as detected
// from its extension. It is empty for files no dialect recognises.
func (c SourceClass) Language() string {
	d, ok := DialectFor(c.File)
	if !ok {
		return ""
	}
	return d.Language
}

// NormalizeImports returns a new sorted slice without duplicates.
func NormalizeImports(imports []string) []string {
	out := make([]string, len(imports))
	copy(out, imports)
	slices.Sort(out)
	return slices.Compact(out)
}

// NormalizeProperties returns a new slice without duplicate (name, type)
// pairs, ordered by name then type.
func NormalizeProperties(props []Property) []Property {
	out := make([]Property, len(props))
	copy(out, props)
	slices.SortFunc(out, func(a, b Property) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return slices.Compact(out)
}
