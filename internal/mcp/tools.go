package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var radarRefProperty = map[string]interface{}{
	"type":        "string",
	"description": "Radar ID or name (case-insensitive)",
}

var limitProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Maximum number of results to return (default: 20)",
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "list_radars",
		Description: "List saved radars (job-matching profiles) with their status, schedule and last run.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
	{
		Name:        "run_radar",
		Description: "Run a radar against the stored jobs now. Replaces the radar's saved matches and returns the best ones.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"radar": radarRefProperty,
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "Run even if the radar is paused or disabled",
				},
				"limit": limitProperty,
			},
			"required": []string{"radar"},
		},
	},
	{
		Name:        "get_matches",
		Description: "Get the saved matches of a radar, best first, with per-signal score reasons.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"radar": radarRefProperty,
				"min_score": map[string]interface{}{
					"type":        "integer",
					"description": "Only return matches scoring at least this much (0-100)",
				},
				"limit": limitProperty,
			},
			"required": []string{"radar"},
		},
	},
	{
		Name:        "search_jobs",
		Description: "Search stored jobs with a boolean query over title and stack tags. Terms are ANDed; supports OR, -term, NOT term and \"quoted phrases\".",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Boolean search query, e.g. 'react -wordpress' or 'go OR rust'",
				},
				"country": map[string]interface{}{
					"type":        "string",
					"description": "Only jobs from this client country",
				},
				"since_hours": map[string]interface{}{
					"type":        "integer",
					"description": "Only jobs posted in the last N hours",
				},
				"limit": limitProperty,
			},
		},
	},
	{
		Name:        "set_application",
		Description: "Record what you did about a job (applied, shortlisted, interview, hired, declined, none).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"job_id": map[string]interface{}{
					"type":        "string",
					"description": "Job ID",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"none", "applied", "shortlisted", "interview", "hired", "declined"},
					"description": "Application status",
				},
				"note": map[string]interface{}{
					"type":        "string",
					"description": "Free-form note",
				},
				"proposal_link": map[string]interface{}{
					"type":        "string",
					"description": "Link to the submitted proposal",
				},
			},
			"required": []string{"job_id", "status"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate statistics about stored jobs: tiers, countries, budgets and competition.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Calculate stats for jobs posted in the last N days only",
				},
			},
		},
	},
}
