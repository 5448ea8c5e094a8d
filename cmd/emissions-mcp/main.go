// Command emissions-mcp exposes the flight emissions estimator as an MCP
// tool over stdio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/emissions"
	"github.com/gilby125/flight-emissions-api/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	reg, err := registry.Load(cfg.RegistryConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading airport registry: %v\n", err)
		os.Exit(1)
	}

	proc := emissions.NewProcessor(reg, cfg.EmissionsConfig)

	s := server.NewMCPServer(
		"flight-emissions-mcp",
		"1.0.0",
		server.WithLogging(),
	)

	tool := mcp.NewTool("flight_emissions",
		mcp.WithDescription("Compute great-circle flight distance and CO2e emissions for a route"),
		mcp.WithString("route",
			mcp.Description("Dash-separated airport code chain for multi-leg itineraries (e.g., TRV-BLR-JFK)"),
		),
		mcp.WithString("origin",
			mcp.Description("Origin airport code for a single leg (e.g., TRV)"),
		),
		mcp.WithString("destination",
			mcp.Description("Destination airport code for a single leg (e.g., BLR)"),
		),
		mcp.WithNumber("trips",
			mcp.Description("Number of trips flown on the route (default 1)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}

		route, _ := argsMap["route"].(string)
		origin, _ := argsMap["origin"].(string)
		destination, _ := argsMap["destination"].(string)

		tripsVal, _ := argsMap["trips"].(float64)
		trips := int(tripsVal)
		if trips == 0 {
			trips = 1
		}

		var (
			result emissions.RouteResult
			err    error
		)
		switch {
		case route != "":
			result, err = proc.RouteString(route, trips)
		case origin != "" && destination != "":
			result, err = proc.Pair(origin, destination, trips)
		default:
			return mcp.NewToolResultError("Either route or origin and destination are required"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error computing emissions: %v", err)), nil
		}

		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
