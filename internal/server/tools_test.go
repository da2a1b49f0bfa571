package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_info",
		"map_import",
		"map_save",
		"map_load",
		"map_export",
		"map_problems",
		"map_provinces",
		"map_province_get",
		"map_province_update",
		"map_pixel_info",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool input schema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("Input schema type should be 'object', got %v", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("Input schema properties missing")
			}

			// Every required field must be declared.
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, name := range required {
					if _, ok := props[name]; !ok {
						t.Errorf("Required field %s not in properties", name)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredFields(t *testing.T) {
	tests := map[string][]string{
		"image_info":          {"path"},
		"map_import":          {"path", "inputs_root"},
		"map_save":            {"dir"},
		"map_load":            {"dir", "inputs_root"},
		"map_export":          {"path"},
		"map_province_get":    {"id"},
		"map_province_update": {"id"},
		"map_pixel_info":      {"x", "y"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, _ := toolMap[name].InputSchema["required"].([]string)
			if len(got) != len(want) {
				t.Fatalf("required: got %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], want[i])
				}
			}
		})
	}

	// Paging tools take no required arguments.
	for _, name := range []string{"map_problems", "map_provinces"} {
		if _, ok := toolMap[name].InputSchema["required"]; ok {
			t.Errorf("%s should not require arguments", name)
		}
	}
}
