package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_info",
			Description: "Get dimensions, format, color depth and the number of distinct colors of an image file. Useful to check a province map before importing it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Detection and Persistence
		{
			Name:        "map_import",
			Description: "Detect every connected single-color region of a province map, build one province per region, and make it the session map. The source image is copied to provinces.bmp under inputs_root. Returns province and problem counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the province map image",
					},
					"inputs_root": map[string]interface{}{
						"type":        "string",
						"description": "Directory that keeps the imported source image",
					},
					"connectivity": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{4, 8},
						"description": "Pixel connectivity for region growth. Default 8",
						"default":     8,
					},
					"boundary": map[string]interface{}{
						"type":        "string",
						"description": "Boundary color as #RRGGBB. Default #000000",
						"default":     "#000000",
					},
					"rules": map[string]interface{}{
						"type":        "string",
						"description": "Comma separated problem rules: touching-regions, stray-boundary, small-shape, or none. Default touching-regions,stray-boundary",
					},
					"min_shape_size": map[string]interface{}{
						"type":        "integer",
						"description": "Report regions smaller than this many pixels. Enables the small-shape rule unless rules is given. Default 0 (disabled)",
						"default":     0,
					},
				},
				"required": []string{"path", "inputs_root"},
			},
		},
		{
			Name:        "map_save",
			Description: "Write the session map to a directory as shapedata.bin (label matrix) and definition.csv (one province per line).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Map directory, created if missing",
					},
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "map_load",
			Description: "Load a saved map directory into the session. The source image is read from provinces.bmp under inputs_root. Out-of-range labels are returned as warnings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Map directory written by map_save",
					},
					"inputs_root": map[string]interface{}{
						"type":        "string",
						"description": "Directory holding provinces.bmp",
					},
				},
				"required": []string{"dir", "inputs_root"},
			},
		},
		{
			Name:        "map_export",
			Description: "Render the session map with each province in its unique color and write it as an image. The format follows the file extension (png, bmp, tif, jpg, gif).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the image to write",
					},
				},
				"required": []string{"path"},
			},
		},

		// Queries and Edits
		{
			Name:        "map_problems",
			Description: "List pixels flagged by the last map_import, in row-major order, with the rule that flagged each one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"offset": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the first problem to return. Default 0",
						"default":     0,
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of problems to return. Default 100",
						"default":     100,
					},
				},
			},
		},
		{
			Name:        "map_provinces",
			Description: "List provinces of the session map ordered by id.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"offset": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the first province to return. Default 0",
						"default":     0,
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of provinces to return. Default 100",
						"default":     100,
					},
				},
			},
		},
		{
			Name:        "map_province_get",
			Description: "Get one province by id.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Province id (1-based)",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "map_province_update",
			Description: "Edit the classification of one province. Only the given fields change; id and color are fixed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Province id (1-based)",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"UNKNOWN", "LAND", "SEA", "LAKE"},
						"description": "Province type",
					},
					"coastal": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether the province borders the sea",
					},
					"terrain": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"UNKNOWN", "PLAINS", "FOREST", "HILLS", "MOUNTAIN", "DESERT", "MARSH", "JUNGLE", "URBAN", "OCEAN", "LAKES"},
						"description": "Terrain class",
					},
					"continent": map[string]interface{}{
						"type":        "integer",
						"description": "Continent id",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "map_pixel_info",
			Description: "Get the label, source color and province at a pixel of the session map. After map_import the detected region's bounds and size are included too.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
