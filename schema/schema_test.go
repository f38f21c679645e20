package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func articleSchema() *Schema {
	return Object(
		Prop("title", String()),
		Prop("content", String()),
		Prop("views", Number()),
		Prop("published", Boolean()),
		Prop("status", Enum("draft", "published")),
		Prop("subtitle", Optional(String())),
		Prop("note", Nullable(String())),
		Prop("items", Array(Object(
			Prop("label", String()),
			Prop("done", Boolean()),
		))),
		Prop("meta", Optional(Object(
			Prop("author", String()),
		))),
	)
}

func validArticle() map[string]any {
	return map[string]any{
		"title":     "T",
		"content":   "C",
		"views":     float64(3),
		"published": true,
		"status":    "draft",
		"note":      nil,
		"items": []any{
			map[string]any{"label": "a", "done": false},
		},
		"extra": "allowed",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		issues []Issue
	}{
		{"Valid", func(map[string]any) {}, nil},
		{"OptionalPresent", func(d map[string]any) { d["subtitle"] = "S" }, nil},
		{"NullableWithValue", func(d map[string]any) { d["note"] = "n" }, nil},
		{"WrongLeafType", func(d map[string]any) { d["title"] = float64(1) },
			[]Issue{{Path: "/title", Message: "expected string, received number"}}},
		{"MissingRequired", func(d map[string]any) { delete(d, "content") },
			[]Issue{{Path: "/content", Message: "required"}}},
		{"MissingNullable", func(d map[string]any) { delete(d, "note") },
			[]Issue{{Path: "/note", Message: "required"}}},
		{"NullNotAllowed", func(d map[string]any) { d["title"] = nil },
			[]Issue{{Path: "/title", Message: "expected string, received null"}}},
		{"EnumMismatch", func(d map[string]any) { d["status"] = "archived" },
			[]Issue{{Path: "/status", Message: `expected one of ["draft", "published"], received "archived"`}}},
		{"NestedArrayElement", func(d map[string]any) {
			d["items"] = []any{
				map[string]any{"label": "a", "done": false},
				map[string]any{"label": "b", "done": "no"},
			}
		}, []Issue{{Path: "/items/1/done", Message: "expected boolean, received string"}}},
		{"NotAnArray", func(d map[string]any) { d["items"] = map[string]any{} },
			[]Issue{{Path: "/items", Message: "expected array, received object"}}},
		{"OptionalObjectChecked", func(d map[string]any) { d["meta"] = map[string]any{} },
			[]Issue{{Path: "/meta/author", Message: "required"}}},
		{"Multiple", func(d map[string]any) {
			d["title"] = false
			delete(d, "views")
		}, []Issue{
			{Path: "/title", Message: "expected string, received boolean"},
			{Path: "/views", Message: "required"},
		}},
	}

	s := articleSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validArticle()
			tt.mutate(doc)

			err := s.Validate(doc)
			if tt.issues == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if diff := cmp.Diff(tt.issues, verr.Issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_Root(t *testing.T) {
	err := Object().Validate("text")
	if err == nil || err.Error() != "expected object, received string" {
		t.Errorf("Validate() error = %v", err)
	}

	var s *Schema
	if err := s.Validate(42); err != nil {
		t.Errorf("nil schema rejected a value: %v", err)
	}
	if err := (&Schema{Kind: KindUnknown}).Validate([]any{1}); err != nil {
		t.Errorf("unknown schema rejected a value: %v", err)
	}
}

func TestValidate_NonCanonicalNumbers(t *testing.T) {
	if err := Number().Validate(7); err != nil {
		t.Errorf("int rejected: %v", err)
	}
	if err := Enum(1, 2).Validate(float64(2)); err != nil {
		t.Errorf("enum of ints rejected float64: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Issues: []Issue{
		{Path: "/a", Message: "required"},
		{Path: "", Message: "expected object, received null"},
	}}
	want := "/a: required; expected object, received null"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestForPath(t *testing.T) {
	s := articleSchema()

	tests := []struct {
		name string
		path []string
		want *Schema
	}{
		{"Root", nil, s},
		{"Field", []string{"title"}, s.Fields[0].Schema},
		{"ArrayElement", []string{"items", "0"}, s.Fields[7].Schema.Elem},
		{"AnyIndexSameElement", []string{"items", "99"}, s.Fields[7].Schema.Elem},
		{"AppendSegment", []string{"items", "-"}, s.Fields[7].Schema.Elem},
		{"NestedInArray", []string{"items", "3", "label"}, s.Fields[7].Schema.Elem.Fields[0].Schema},
		{"ThroughOptional", []string{"meta", "author"}, s.Fields[8].Schema.Inner.Fields[0].Schema},
		{"WrapperKeptAtEnd", []string{"meta"}, s.Fields[8].Schema},
		{"UnknownField", []string{"missing"}, nil},
		{"PastLeaf", []string{"title", "x"}, nil},
		{"PastEnum", []string{"status", "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForPath(s, tt.path); got != tt.want {
				t.Errorf("ForPath(%v) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}

	if got := ForPath(nil, []string{"a"}); got != nil {
		t.Errorf("ForPath(nil) = %+v", got)
	}
}

func TestForPointer(t *testing.T) {
	s := Object(Prop("a/b", Array(Number())))
	if got := ForPointer(s, "/a~1b/0"); got == nil || got.Kind != KindNumber {
		t.Errorf("ForPointer() = %+v, want number schema", got)
	}
	if got := ForPointer(s, "relative"); got != nil {
		t.Errorf("ForPointer(invalid) = %+v, want nil", got)
	}
}

func TestDefault(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		want   any
	}{
		{"Nil", nil, nil},
		{"String", String(), ""},
		{"Number", Number(), float64(0)},
		{"Boolean", Boolean(), false},
		{"Array", Array(String()), []any{}},
		{"EnumFirst", Enum("draft", "published"), "draft"},
		{"EnumIntNormalized", Enum(3), float64(3)},
		{"EmptyEnum", Enum(), nil},
		{"Unknown", &Schema{Kind: KindUnknown}, nil},
		{"OptionalInner", Optional(Number()), float64(0)},
		{"NullableInner", Nullable(Boolean()), false},
		{"Object", Object(
			Prop("label", String()),
			Prop("count", Number()),
			Prop("tags", Array(String())),
			Prop("meta", Optional(Object(Prop("on", Boolean())))),
		), map[string]any{
			"label": "",
			"count": float64(0),
			"tags":  []any{},
			"meta":  map[string]any{"on": false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Default(tt.schema)); diff != "" {
				t.Errorf("Default() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefault_ConformsToSchema(t *testing.T) {
	s := articleSchema()
	if err := s.Validate(Default(s)); err != nil {
		t.Errorf("default document does not validate: %v", err)
	}
}

func TestDefaultForPointer(t *testing.T) {
	s := articleSchema()

	got, ok := DefaultForPointer(s, "/items/-")
	if !ok {
		t.Fatal("DefaultForPointer() found no schema")
	}
	if diff := cmp.Diff(map[string]any{"label": "", "done": false}, got); diff != "" {
		t.Errorf("DefaultForPointer() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := DefaultForPointer(s, "/nope"); ok {
		t.Error("DefaultForPointer() found a schema for an unknown field")
	}
}

const articleDefinition = `
type: object
fields:
  title: string
  content: string
  views: number
  published: boolean
  status:
    enum: [draft, published]
  subtitle:
    type: string
    optional: true
  note:
    type: string
    nullable: true
  items:
    type: array
    items:
      fields:
        label: string
        done: boolean
  meta:
    optional: true
    fields:
      author: string
`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(articleDefinition))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(articleSchema(), got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	got, err := Parse([]byte(`{"type":"array","items":{"enum":[1,"two",true]}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Array(Enum(float64(1), "two", true))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_FieldOrder(t *testing.T) {
	s := MustParse("fields: {z: string, a: number, m: boolean}")
	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, names); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", "empty document"},
		{"UnknownType", "type: date", `unknown type "date"`},
		{"UnknownKey", "type: string\nmin: 3", `unknown key "min"`},
		{"MissingType", "optional: true", "missing type"},
		{"ArrayWithoutItems", "type: array", "array without items"},
		{"EmptyEnum", "enum: []", "non-empty list"},
		{"FieldsNotMapping", "type: object\nfields: [a, b]", "fields must be a mapping"},
		{"DuplicateField", "fields:\n  a: string\n  a: number", ""},
		{"BadFlag", "type: string\noptional: maybe", "optional"},
		{"NestedLocation", "fields:\n  a:\n    type: nope", "at /a"},
		{"Sequence", "[string]", "expected a type name or a mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("error %v does not wrap ErrInvalidDefinition", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.yaml")
	if err := os.WriteFile(path, []byte(articleDefinition), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if s.Kind != KindObject || len(s.Fields) != 9 {
		t.Errorf("ParseFile() = %+v", s)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("ParseFile() expected error for a missing file")
	}
}

func TestKind_String(t *testing.T) {
	if KindNullable.String() != "nullable" {
		t.Errorf("KindNullable.String() = %q", KindNullable.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
