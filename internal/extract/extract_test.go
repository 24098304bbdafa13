package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mherod/source-parse/internal/model"
)

// Test Plan for extractors:
// - Package takes the last declaration and strips trailing ';'
// - Package is absent when there is no declaration
// - ClassName takes the first class keyword only
// - ClassName is absent without a class keyword
// - Imports collapse duplicates
// - Properties capture typed and untyped val/var declarations
// - Keywords glued to other words do not match

func TestPackage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"kotlin", "package com.example.app\n\nclass A", "com.example.app", true},
		{"java semicolon", "package com.example;\nclass A {}", "com.example", true},
		{"inline", "package com.x; class Foo { val name: String val id }", "com.x", true},
		{"last wins", "package first\n// package second;\nclass A", "second", true},
		{"no package", "class A", "", false},
		{"bare semicolon", "package ;", "", false},
		{"glued keyword", "subpackage nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Package(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassName(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"simple", "class Foo {}", "Foo", true},
		{"data class", "data class User(val id: Int)", "User", true},
		{"first only", "class First\nclass Second", "First", true},
		{"generic stops at word", "class Box<T>(val v: T)", "Box", true},
		{"none", "object Singleton", "", false},
		{"glued keyword", "subclass Nope", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassName(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImports(t *testing.T) {
	text := `package a

import kotlin.collections.List
import java.io.File
import kotlin.collections.List

class A`

	assert.Equal(t, []string{"java.io.File", "kotlin.collections.List"}, Imports(text))
}

func TestImports_None(t *testing.T) {
	got := Imports("class A")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProperties(t *testing.T) {
	text := "package com.x; class Foo { val name: String val id }"

	assert.Equal(t, []model.Property{
		{Name: "id"},
		{Name: "name", Type: "String"},
	}, Properties(text))
}

func TestProperties_Forms(t *testing.T) {
	text := `class Foo(
    val id: Int,
    var count : Long,
) {
    private val cache = mutableMapOf<String, Int>()
    var label
    val id: Int
}`

	assert.Equal(t, []model.Property{
		{Name: "cache"},
		{Name: "count", Type: "Long"},
		{Name: "id", Type: "Int"},
		{Name: "label"},
	}, Properties(text))
}

func TestProperties_UntypedDoesNotStealNextWord(t *testing.T) {
	text := "val x\nval y: Int"

	assert.Equal(t, []model.Property{
		{Name: "x"},
		{Name: "y", Type: "Int"},
	}, Properties(text))
}

func TestProperties_GluedKeyword(t *testing.T) {
	assert.Empty(t, Properties("interval x: Int"))
}
