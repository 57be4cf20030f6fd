package typegen

import (
	"testing"

	"github.com/matzehuels/jray/pkg/errors"
)

func TestGenerateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "flat object",
			in:   `{"app": "J-RAY", "retries": 3, "debug": true, "owner": null}`,
			want: `export interface RootObject {
  app: string;
  retries: number;
  debug: boolean;
  owner: any | null;
}
`,
		},
		{
			name: "nested",
			in:   `{"user_profile": {"id": 1, "tags": ["a"]}, "items": [{"sku": "x"}], "empty": []}`,
			want: `export interface RootObject {
  user_profile: UserProfile;
  items: Items[];
  empty: any[];
}

export interface UserProfile {
  id: number;
  tags: string[];
}

export interface Items {
  sku: string;
}
`,
		},
		{
			name: "root array of objects",
			in:   `[{"name": "a"}, {"other": 1}]`,
			want: `export interface RootItem {
  name: string;
}

export type Root = RootItem[];
`,
		},
		{
			name: "empty root array",
			in:   `[]`,
			want: `export interface RootItem {
}

export type Root = RootItem[];
`,
		},
		{
			name: "root array of scalars",
			in:   `[1, 2]`,
			want: "export type Root = number[];\n",
		},
		{
			name: "scalar root",
			in:   `"hello"`,
			want: "export type Root = string;\n",
		},
		{
			name: "nested arrays",
			in:   `{"grid": [[1, 2]], "shapes": [[{"x": 1}]]}`,
			want: `export interface RootObject {
  grid: number[][];
  shapes: Shapes[][];
}

export interface Shapes {
  x: number;
}
`,
		},
		{
			name: "quoted keys",
			in:   `{"content-type": "json", "2fa": false}`,
			want: `export interface RootObject {
  "content-type": string;
  "2fa": boolean;
}
`,
		},
		{
			name: "first name wins",
			in:   `{"a": {"meta": {"x": 1}}, "b": {"meta": {"y": "s"}}}`,
			want: `export interface RootObject {
  a: A;
  b: B;
}

export interface A {
  meta: Meta;
}

export interface Meta {
  x: number;
}

export interface B {
  meta: Meta;
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateText(tt.in)
			if err != nil {
				t.Fatalf("GenerateText: %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateText() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestGenerateTextInvalid(t *testing.T) {
	_, err := GenerateText(`{"a":`)
	if !errors.Is(err, errors.ErrCodeInvalidJSON) {
		t.Errorf("GenerateText(invalid) error = %v, want INVALID_JSON", err)
	}
}

func TestTypeName(t *testing.T) {
	tests := map[string]string{
		"user":         "User",
		"user_profile": "UserProfile",
		"user-profile": "UserProfile",
		"123":          "T123",
		"":             "T",
	}
	for in, want := range tests {
		if got := TypeName(in); got != want {
			t.Errorf("TypeName(%q) = %q, want %q", in, got, want)
		}
	}
}
