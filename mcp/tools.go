package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/autofill"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/render"
)

// Deps are the collaborators behind the tools. Autofill may be nil.
type Deps struct {
	Registry *render.Registry
	Autofill *autofill.Client
}

var typeProperty = map[string]any{
	"type":        "string",
	"description": "Magnet type",
	"enum":        typeIDs(),
}

var formProperty = map[string]any{
	"type":        "object",
	"description": "Form fields as JSON, e.g. {\"businessName\": ..., \"niche\": ..., \"checklistTitle\": ..., \"items\": [...]}",
}

func typeIDs() []string {
	ids := make([]string, len(form.Types))
	for i, t := range form.Types {
		ids[i] = string(t)
	}
	return ids
}

// RegisterDefaultTools adds the magnet tools to s.
func RegisterDefaultTools(s *Server, d Deps) {
	s.AddTool(listTypesTool(d))
	s.AddTool(newMagnetTool())
	s.AddTool(validateTool())
	s.AddTool(generateTool(d))
	if d.Autofill != nil {
		s.AddTool(autofillTool(d))
	}
}

func listTypesTool(d Deps) Tool {
	return Tool{
		Name:        "list_magnet_types",
		Description: "List the lead magnet types with their output formats.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (ToolResult, error) {
			var b strings.Builder
			for _, t := range form.Types {
				formats := d.Registry.Formats(t)
				names := make([]string, len(formats))
				for i, f := range formats {
					names[i] = string(f)
				}
				fmt.Fprintf(&b, "%s: %s - %s (formats: %s, default %s)\n",
					t, t.Name(), t.Description(), strings.Join(names, ", "), render.DefaultFormat(t))
			}
			return textResult("%s", b.String()), nil
		},
	}
}

func newMagnetTool() Tool {
	return Tool{
		Name:        "new_magnet",
		Description: "Return the empty form for a magnet type as JSON, ready to fill in.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"type": typeProperty},
			"required":   []string{"type"},
		},
		Handler: func(_ context.Context, args map[string]any) (ToolResult, error) {
			t, err := argType(args)
			if err != nil {
				return ToolResult{}, err
			}
			st, err := form.New(t)
			if err != nil {
				return ToolResult{}, err
			}
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return ToolResult{}, err
			}
			return textResult("%s", data), nil
		},
	}
}

func validateTool() Tool {
	return Tool{
		Name:        "validate_magnet",
		Description: "Check that a magnet form is complete. Lists every missing or out-of-range field.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"type": typeProperty, "form": formProperty},
			"required":   []string{"type", "form"},
		},
		Handler: func(_ context.Context, args map[string]any) (ToolResult, error) {
			st, err := argForm(args)
			if err != nil {
				return ToolResult{}, err
			}
			var ve *leadmagnet.ValidationError
			if err := form.Validate(st); errors.As(err, &ve) {
				return ToolResult{
					Content: []ContentBlock{{Type: "text", Text: "Missing: " + strings.Join(ve.Missing, ", ")}},
					IsError: true,
				}, nil
			} else if err != nil {
				return ToolResult{}, err
			}
			return textResult("The %s form is complete.", st.Type().Name()), nil
		},
	}
}

func autofillTool(d Deps) Tool {
	return Tool{
		Name:        "autofill_magnet",
		Description: "Draft the content of a magnet form with Gemini. Business name, niche and title must be set.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"type": typeProperty, "form": formProperty},
			"required":   []string{"type", "form"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			st, err := argForm(args)
			if err != nil {
				return ToolResult{}, err
			}
			out, err := d.Autofill.Autofill(ctx, st)
			if err != nil {
				return ToolResult{}, err
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return ToolResult{}, err
			}
			return textResult("%s", data), nil
		},
	}
}

func generateTool(d Deps) Tool {
	return Tool{
		Name:        "generate_magnet",
		Description: "Render a complete magnet form to a PDF or HTML artifact. Returns base64 unless outputPath is given.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": typeProperty,
				"form": formProperty,
				"format": map[string]any{
					"type":        "string",
					"description": "Output format; defaults to the type's default",
					"enum":        []string{string(render.PDF), string(render.HTML)},
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Optional file path to save the artifact",
				},
			},
			"required": []string{"type", "form"},
		},
		Handler: func(_ context.Context, args map[string]any) (ToolResult, error) {
			st, err := argForm(args)
			if err != nil {
				return ToolResult{}, err
			}
			var format render.Format
			if f, ok := args["format"].(string); ok && f != "" {
				if format, err = render.ParseFormat(f); err != nil {
					return ToolResult{}, err
				}
			}
			a, err := d.Registry.Render(st, format)
			if err != nil {
				return ToolResult{}, err
			}

			if path, ok := args["outputPath"].(string); ok && path != "" {
				if err := os.WriteFile(path, a.Data, 0o644); err != nil {
					return ToolResult{}, fmt.Errorf("writing file: %w", err)
				}
				return textResult("%s written to %s (%d bytes)", a.Filename, path, len(a.Data)), nil
			}
			return ToolResult{Content: []ContentBlock{
				{Type: "text", Text: fmt.Sprintf("%s created (%d bytes)", a.Filename, len(a.Data))},
				{Type: "resource", MIMEType: a.ContentType, Data: base64.StdEncoding.EncodeToString(a.Data)},
			}}, nil
		},
	}
}

func argType(args map[string]any) (form.Type, error) {
	s, ok := args["type"].(string)
	if !ok {
		return "", fmt.Errorf("missing 'type' argument")
	}
	return form.ParseType(s)
}

// argForm decodes the "form" argument into the state for the "type" argument.
func argForm(args map[string]any) (form.State, error) {
	t, err := argType(args)
	if err != nil {
		return nil, err
	}
	raw, ok := args["form"]
	if !ok {
		return nil, fmt.Errorf("missing 'form' argument")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}
	return form.Unmarshal(t, data)
}
