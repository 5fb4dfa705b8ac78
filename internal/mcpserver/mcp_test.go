package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/internal/testutil"
	"github.com/panbanda/modeldeps/pkg/config"
)

func modelRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteModelProject(t, root)
	return root
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("content items = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", result.Content[0])
	}
	return text.Text
}

func TestServerCreation(t *testing.T) {
	server := NewServer("1.0.0-test")
	if server == nil || server.server == nil {
		t.Fatal("NewServer() returned incomplete server")
	}
	if server.config != nil {
		t.Error("config should be unset without WithConfig")
	}

	cfg := config.DefaultConfig()
	if NewServer("", WithConfig(cfg)).config != cfg {
		t.Error("WithConfig not applied")
	}
}

func TestToolDescriptions(t *testing.T) {
	for name, fn := range map[string]func() string{
		"analyze_types":   describeAnalyzeTypes,
		"type_references": describeTypeReferences,
	} {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			for _, section := range []string{"USE WHEN:", "INTERPRETING RESULTS:", "METRICS RETURNED:"} {
				if !strings.Contains(desc, section) {
					t.Errorf("description missing %s", section)
				}
			}
		})
	}
}

func TestGetFormat(t *testing.T) {
	tests := []struct {
		input string
		want  output.Format
	}{
		{"", output.FormatTOON},
		{"toon", output.FormatTOON},
		{"json", output.FormatJSON},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"text", output.FormatTOON},
	}
	for _, tt := range tests {
		if got := getFormat(AnalyzeInput{Format: tt.input}); got != tt.want {
			t.Errorf("getFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToolError(t *testing.T) {
	result, out, err := toolError("boom")
	if err != nil || out != nil {
		t.Fatalf("toolError() = %v, %v", out, err)
	}
	if !result.IsError {
		t.Error("IsError = false")
	}
	if got := resultText(t, result); got != "Error: boom" {
		t.Errorf("text = %q", got)
	}
}

func TestHandleAnalyzeTypes(t *testing.T) {
	root := modelRoot(t)
	s := NewServer("test")

	t.Run("toon default", func(t *testing.T) {
		result, _, err := s.handleAnalyzeTypes(context.Background(), nil, AnalyzeTypesInput{
			AnalyzeInput: AnalyzeInput{Root: root},
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.IsError {
			t.Fatalf("tool error: %s", resultText(t, result))
		}
		text := resultText(t, result)
		for _, want := range []string{"Orphan", "copied-tb-model.go", "record", "unreferenced"} {
			if !strings.Contains(text, want) {
				t.Errorf("toon output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		result, _, _ := s.handleAnalyzeTypes(context.Background(), nil, AnalyzeTypesInput{
			AnalyzeInput: AnalyzeInput{Root: root, Format: "json"},
		})
		var data struct {
			Classification struct {
				Unreferenced []string `json:"unreferenced"`
			} `json:"classification"`
			Summary struct {
				Records int `json:"records"`
			} `json:"summary"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &data); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(data.Classification.Unreferenced) != 1 || data.Classification.Unreferenced[0] != "Orphan" {
			t.Errorf("unreferenced = %v", data.Classification.Unreferenced)
		}
		if data.Summary.Records != 9 {
			t.Errorf("records = %d, want 9", data.Summary.Records)
		}
	})

	t.Run("unused only", func(t *testing.T) {
		result, _, _ := s.handleAnalyzeTypes(context.Background(), nil, AnalyzeTypesInput{
			AnalyzeInput: AnalyzeInput{Root: root, Format: "json"},
			UnusedOnly:   true,
		})
		var data struct {
			Unreferenced []string `json:"unreferenced"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &data); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(data.Unreferenced) != 1 {
			t.Errorf("unreferenced = %v", data.Unreferenced)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		result, _, _ := s.handleAnalyzeTypes(context.Background(), nil, AnalyzeTypesInput{
			AnalyzeInput: AnalyzeInput{Root: root, Format: "markdown"},
		})
		text := resultText(t, result)
		if !strings.HasPrefix(text, "# Model Dependency Analysis") || !strings.Contains(text, "- Orphan") {
			t.Errorf("markdown output:\n%s", text)
		}
	})
}

func TestHandleAnalyzeTypesNoFiles(t *testing.T) {
	s := NewServer("test")
	result, _, err := s.handleAnalyzeTypes(context.Background(), nil, AnalyzeTypesInput{
		AnalyzeInput: AnalyzeInput{Root: t.TempDir()},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "no model files found") || !strings.Contains(text, "File not found") {
		t.Errorf("text = %q", text)
	}
}

func TestHandleTypeReferences(t *testing.T) {
	root := modelRoot(t)
	s := NewServer("test")

	call := func(name string) *mcp.CallToolResult {
		t.Helper()
		result, _, err := s.handleTypeReferences(context.Background(), nil, TypeReferencesInput{
			AnalyzeInput: AnalyzeInput{Root: root, Format: "json"},
			Name:         name,
		})
		if err != nil {
			t.Fatal(err)
		}
		return result
	}

	t.Run("exact", func(t *testing.T) {
		var detail struct {
			Name         string `json:"name"`
			Dependencies []string
			ReferencedBy []struct {
				Name string `json:"name"`
				File string `json:"file"`
			} `json:"referenced_by"`
		}
		if err := json.Unmarshal([]byte(resultText(t, call("Foo"))), &detail); err != nil {
			t.Fatal(err)
		}
		if detail.Name != "Foo" || len(detail.ReferencedBy) != 1 || detail.ReferencedBy[0].Name != "Holder" {
			t.Errorf("detail = %+v", detail)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		if text := resultText(t, call("orphan")); !strings.Contains(text, `"name": "Orphan"`) {
			t.Errorf("text = %s", text)
		}
	})

	t.Run("ambiguous glob", func(t *testing.T) {
		text := resultText(t, call("Ba*"))
		if !strings.Contains(text, `"candidates"`) || !strings.Contains(text, "Bar") || !strings.Contains(text, "Baz") {
			t.Errorf("text = %s", text)
		}
	})

	t.Run("not found", func(t *testing.T) {
		result := call("Nope")
		if !result.IsError {
			t.Error("expected tool error")
		}
	})

	t.Run("toon default", func(t *testing.T) {
		result, _, err := s.handleTypeReferences(context.Background(), nil, TypeReferencesInput{
			AnalyzeInput: AnalyzeInput{Root: root},
			Name:         "Foo",
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.IsError {
			t.Fatalf("tool error: %s", resultText(t, result))
		}
		text := resultText(t, result)
		for _, want := range []string{"kind: record", "status: referenced", "pointer-slice"} {
			if !strings.Contains(text, want) {
				t.Errorf("toon output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("empty name", func(t *testing.T) {
		result := call("  ")
		if !result.IsError || !strings.Contains(resultText(t, result), "name is required") {
			t.Error("expected name is required error")
		}
	})
}

func TestParseFrontmatter(t *testing.T) {
	content := []byte("---\ndescription: Find things\narguments:\n  - name: root\n    default: .\n---\n\nBody {{root}}\n")
	fm, body := parseFrontmatter(content)
	if fm.Description != "Find things" {
		t.Errorf("description = %q", fm.Description)
	}
	if len(fm.Arguments) != 1 || fm.Arguments[0].Name != "root" || fm.Arguments[0].Default != "." {
		t.Errorf("arguments = %+v", fm.Arguments)
	}
	if body != "Body {{root}}\n" {
		t.Errorf("body = %q", body)
	}

	fm, body = parseFrontmatter([]byte("no frontmatter"))
	if fm.Description != "" || body != "no frontmatter" {
		t.Errorf("plain content parsed as %+v, %q", fm, body)
	}
}

func TestPromptFiles(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("no prompts embedded")
	}
	for _, e := range entries {
		content, err := promptFiles.ReadFile("prompts/" + e.Name())
		if err != nil {
			t.Fatal(err)
		}
		fm, body := parseFrontmatter(content)
		if fm.Description == "" {
			t.Errorf("%s: missing description", e.Name())
		}
		if !strings.Contains(body, "analyze_types") && !strings.Contains(body, "type_references") {
			t.Errorf("%s: prompt does not mention a tool", e.Name())
		}
	}
}

func TestPromptHandler(t *testing.T) {
	fm := promptFrontmatter{
		Description: "Explain",
		Arguments:   []promptArgument{{Name: "name", Default: "*"}},
	}
	handler := makePromptHandler(fm, "look up {{name}}")

	result, err := handler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "explain-type", Arguments: map[string]string{"name": "Foo"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if text := result.Messages[0].Content.(*mcp.TextContent).Text; text != "look up Foo" {
		t.Errorf("text = %q", text)
	}

	result, _ = handler(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{}})
	if text := result.Messages[0].Content.(*mcp.TextContent).Text; text != "look up *" {
		t.Errorf("default text = %q", text)
	}
}

func TestSubstituteArg(t *testing.T) {
	tests := []struct {
		text, key string
		args      map[string]string
		def, want string
	}{
		{"ref {{ref}}", "ref", map[string]string{"ref": "main"}, "HEAD", "ref main"},
		{"ref {{ref}}", "ref", nil, "HEAD", "ref HEAD"},
		{"ref {{ref}}", "ref", map[string]string{"ref": ""}, "HEAD", "ref HEAD"},
		{"no placeholder", "ref", map[string]string{"ref": "main"}, "HEAD", "no placeholder"},
	}
	for _, tt := range tests {
		if got := substituteArg(tt.text, tt.key, tt.args, tt.def); got != tt.want {
			t.Errorf("substituteArg(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Name != "io.github.panbanda/modeldeps" || m.Version != "1.2.3" {
		t.Errorf("manifest = %+v", m)
	}
	if len(m.Packages) != 1 || m.Packages[0].Transport.Type != "stdio" {
		t.Errorf("packages = %+v", m.Packages)
	}

	pkg := m.Packages[0]
	if len(pkg.EnvironmentVariables) != 1 || pkg.EnvironmentVariables[0].Name != "MODELDEPS_CONFIG" {
		t.Errorf("environment variables = %+v", pkg.EnvironmentVariables)
	}

	for _, v := range []string{"", "dev"} {
		data, _ = GenerateManifest(v)
		if !strings.Contains(string(data), `"version": "0.0.0"`) {
			t.Errorf("version %q should default to 0.0.0", v)
		}
	}

	if got := NewManifest("v2.0.1").Version; got != "2.0.1" {
		t.Errorf("NewManifest(v2.0.1).Version = %q", got)
	}
}
