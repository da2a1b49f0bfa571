// Package server implements the MCP (Model Context Protocol) server for province map tools.
//
// This package provides a JSON-RPC 2.0 server that exposes province map
// detection, persistence and editing through the MCP protocol. A client imports
// a province map image, inspects the detected provinces and problem pixels,
// edits province classifications, and saves the result as a map directory.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_info: Dimensions, format and distinct color count of an image
//
// Detection and Persistence:
//   - map_import: Detect regions of a map image and build provinces
//   - map_save: Write shapedata.bin and definition.csv
//   - map_load: Read a saved map directory
//   - map_export: Render provinces in their unique colors
//
// Queries and Edits:
//   - map_problems: Pixels flagged during detection
//   - map_provinces: Page through provinces
//   - map_province_get: One province by id
//   - map_province_update: Change type, coastal, terrain or continent
//   - map_pixel_info: Label, province and detected region at a pixel
//
// # Session State
//
// The server holds one map project at a time. map_import and map_load replace
// it; every other map tool operates on it. Tool calls are serialized.
//
// # Warnings
//
// Warnings and errors raised while a tool runs (for example out-of-range labels
// found by map_load) are logged to stderr and returned to the client as a second
// text content item holding {"messages": [...], "total": n}. At most 200
// messages are returned per call; total counts all of them.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithConfig(config.FromEnv()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
