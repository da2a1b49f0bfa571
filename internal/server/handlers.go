package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/province-map-tools/internal/detection"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/mapproject"
	"github.com/ironsheep/province-map-tools/internal/province"
	"github.com/ironsheep/province-map-tools/internal/report"
)

// errNoProject is returned by tools that need an imported or loaded map.
var errNoProject = errors.New("no map in session; run map_import or map_load first")

// defaultPageSize bounds list results when no limit is given.
const defaultPageSize = 100

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "map_import", "map_save").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// callMessages is appended to a tool result when the call raised warnings
// or errors.
type callMessages struct {
	Messages []report.Entry `json:"messages"`
	Total    int            `json:"total"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Warnings raised while the tool ran follow as a second text item.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	s.mu.Lock()
	s.call = &report.Recorder{Limit: maxCallMessages}
	result, err := s.executeTool(params.Name, params.Arguments)
	rec := s.call
	s.call = nil
	s.mu.Unlock()

	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if entries := rec.Entries(); len(entries) > 0 {
		total := rec.Count(report.LevelWarning) + rec.Count(report.LevelError)
		content = append(content, map[string]interface{}{
			"type": "text",
			"text": mustMarshalJSON(callMessages{Messages: entries, Total: total}),
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls into the session map project
//  4. Returns the result or error
//
// Callers hold s.mu.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_info":
		return s.handleImageInfo(args)

	// Detection and persistence
	case "map_import":
		return s.handleMapImport(args)
	case "map_save":
		return s.handleMapSave(args)
	case "map_load":
		return s.handleMapLoad(args)
	case "map_export":
		return s.handleMapExport(args)

	// Queries and edits
	case "map_problems":
		return s.handleMapProblems(args)
	case "map_provinces":
		return s.handleMapProvinces(args)
	case "map_province_get":
		return s.handleMapProvinceGet(args)
	case "map_province_update":
		return s.handleMapProvinceUpdate(args)
	case "map_pixel_info":
		return s.handleMapPixelInfo(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// page clamps offset/limit against n items.
func page(n, offset, limit int) (start, end int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	start = offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	return start, end
}

func (s *Server) requireProject() (*mapproject.Project, error) {
	if s.project == nil || s.project.Info().Empty() {
		return nil, errNoProject
	}
	return s.project, nil
}

// === Image Information ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadRasterInfo(s.cache, a.Path)
}

// === Detection and Persistence ===

type mapImportArgs struct {
	Path         string `json:"path"`
	InputsRoot   string `json:"inputs_root"`
	Connectivity int    `json:"connectivity"`
	Boundary     string `json:"boundary"`
	Rules        string `json:"rules"`
	MinShapeSize int    `json:"min_shape_size"`
}

type mapImportResult struct {
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Provinces      int            `json:"provinces"`
	Problems       int            `json:"problems"`
	ProblemsByRule map[string]int `json:"problems_by_rule"`
	SourceImage    string         `json:"source_image"`
}

func (s *Server) handleMapImport(args json.RawMessage) (interface{}, error) {
	var a mapImportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.InputsRoot == "" {
		return nil, errors.New("path and inputs_root are required")
	}

	cfg := s.cfg
	if a.Connectivity != 0 {
		conn := detection.Connectivity(a.Connectivity)
		if !conn.Valid() {
			return nil, fmt.Errorf("connectivity must be 4 or 8, got %d", a.Connectivity)
		}
		cfg.Connectivity = conn
	}
	if a.Boundary != "" {
		c, err := imaging.ParseHex(a.Boundary)
		if err != nil {
			return nil, err
		}
		cfg.Boundary = c
	}
	if a.Rules != "" {
		r, err := detection.ParseRules(a.Rules)
		if err != nil {
			return nil, err
		}
		cfg.SetRules(r)
	}
	if a.MinShapeSize > 0 {
		cfg.MinShapeSize = a.MinShapeSize
	}

	project := mapproject.New(mapproject.Dir(a.InputsRoot), sessionReporter{s})
	res, err := project.ImportFile(a.Path, cfg.DetectionOptions(nil))
	if err != nil {
		return nil, err
	}
	s.project, s.result = project, res
	rep := &res.Report

	r := project.Info().Raster()
	return &mapImportResult{
		Width:          r.Width(),
		Height:         r.Height(),
		Provinces:      project.Info().ProvinceCount(),
		Problems:       rep.Count,
		ProblemsByRule: rep.ByRule(),
		SourceImage:    project.SourceImagePath(),
	}, nil
}

type dirArgs struct {
	Dir string `json:"dir"`
}

type mapSaveResult struct {
	Dir       string   `json:"dir"`
	Provinces int      `json:"provinces"`
	Files     []string `json:"files"`
}

func (s *Server) handleMapSave(args json.RawMessage) (interface{}, error) {
	var a dirArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, errors.New("dir is required")
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	if err := project.Save(a.Dir); err != nil {
		return nil, err
	}
	return &mapSaveResult{
		Dir:       a.Dir,
		Provinces: project.Info().ProvinceCount(),
		Files:     []string{mapproject.ShapeDataFilename, mapproject.ProvinceDataFilename},
	}, nil
}

type mapLoadArgs struct {
	Dir        string `json:"dir"`
	InputsRoot string `json:"inputs_root"`
}

type mapLoadResult struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	Provinces int `json:"provinces"`
}

func (s *Server) handleMapLoad(args json.RawMessage) (interface{}, error) {
	var a mapLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" || a.InputsRoot == "" {
		return nil, errors.New("dir and inputs_root are required")
	}

	project := mapproject.New(mapproject.Dir(a.InputsRoot), sessionReporter{s})
	if err := project.Load(a.Dir); err != nil {
		return nil, err
	}
	s.project, s.result = project, nil

	labels := project.Info().Labels()
	return &mapLoadResult{
		Width:     labels.Width(),
		Height:    labels.Height(),
		Provinces: project.Info().ProvinceCount(),
	}, nil
}

func (s *Server) handleMapExport(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	if err := project.ExportGraphics(a.Path); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Path)
	return map[string]interface{}{
		"path":   a.Path,
		"format": imaging.FormatOf(a.Path),
	}, nil
}

// === Queries and Edits ===

type pageArgs struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type mapProblemsResult struct {
	Count    int                 `json:"count"`
	ByRule   map[string]int      `json:"by_rule"`
	Offset   int                 `json:"offset"`
	Problems []detection.Problem `json:"problems"`
}

func (s *Server) handleMapProblems(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.result == nil {
		return nil, errors.New("no detection report in session; run map_import first")
	}
	rep := &s.result.Report
	start, end := page(len(rep.Problems), a.Offset, a.Limit)
	return &mapProblemsResult{
		Count:    rep.Count,
		ByRule:   rep.ByRule(),
		Offset:   start,
		Problems: rep.Problems[start:end],
	}, nil
}

type mapProvincesResult struct {
	Total     int                 `json:"total"`
	Offset    int                 `json:"offset"`
	Provinces []province.Province `json:"provinces"`
}

func (s *Server) handleMapProvinces(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	list := project.Info().Provinces()
	start, end := page(len(list), a.Offset, a.Limit)
	return &mapProvincesResult{
		Total:     len(list),
		Offset:    start,
		Provinces: list[start:end],
	}, nil
}

type provinceIDArgs struct {
	ID uint32 `json:"id"`
}

func (s *Server) handleMapProvinceGet(args json.RawMessage) (interface{}, error) {
	var a provinceIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	return project.Province(a.ID)
}

type provinceUpdateArgs struct {
	ID        uint32  `json:"id"`
	Type      string  `json:"type"`
	Coastal   *bool   `json:"coastal"`
	Terrain   string  `json:"terrain"`
	Continent *uint32 `json:"continent"`
}

func (s *Server) handleMapProvinceUpdate(args json.RawMessage) (interface{}, error) {
	var a provinceUpdateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	patch := province.Patch{Coastal: a.Coastal, Continent: a.Continent}
	if a.Type != "" {
		t, err := province.ParseType(a.Type)
		if err != nil {
			return nil, err
		}
		patch.Type = &t
	}
	if a.Terrain != "" {
		t, err := province.ParseTerrain(a.Terrain)
		if err != nil {
			return nil, err
		}
		patch.Terrain = &t
	}
	if patch.Empty() {
		return nil, errors.New("nothing to update; set type, coastal, terrain or continent")
	}
	return project.UpdateProvince(a.ID, patch)
}

type pixelArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// shapeSummary describes the detected region under a pixel.
type shapeSummary struct {
	Bounds detection.Bounds `json:"bounds"`
	Size   int              `json:"size"`
}

type pixelInfoResult struct {
	X           int                `json:"x"`
	Y           int                `json:"y"`
	SourceColor string             `json:"source_color"`
	Label       uint32             `json:"label"`
	Boundary    bool               `json:"boundary"`
	Province    *province.Province `json:"province,omitempty"`
	Shape       *shapeSummary      `json:"shape,omitempty"`
}

func (s *Server) handleMapPixelInfo(args json.RawMessage) (interface{}, error) {
	var a pixelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	project, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	p, ok, err := project.ProvinceAt(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	info := project.Info()
	label := info.Labels().At(a.X, a.Y)
	res := &pixelInfoResult{
		X:        a.X,
		Y:        a.Y,
		Label:    label,
		Boundary: label == 0,
	}
	if r := info.Raster(); r != nil && r.InBounds(a.X, a.Y) {
		res.SourceColor = r.ColorAt(a.X, a.Y).Hex()
	}
	if ok {
		res.Province = &p
	}
	// Shapes are only known for a map detected in this session.
	if s.result != nil {
		if shape := s.result.ShapeAt(a.X, a.Y); shape != nil {
			res.Shape = &shapeSummary{Bounds: shape.Bounds, Size: shape.Size}
		}
	}
	return res, nil
}
