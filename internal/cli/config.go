package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file already exists at %s\n", configPath)
		fmt.Println("Use 'jobradar config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Import jobs: 'jobradar jobs import jobs.json'")
	fmt.Println("     or set [source] and JOBRADAR_CLIENT_SECRET, then 'jobradar jobs fetch'")
	fmt.Println("  2. Create a radar: 'jobradar radar create \"Go APIs\" --tags go --verified-only'")
	fmt.Println("  3. Run it: 'jobradar radar run \"Go APIs\"'")
	fmt.Println()
	fmt.Printf("Secrets can go in %s\n", filepath.Join(configDir, ".env"))

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'jobradar config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# jobradar configuration

[database]
path = "~/.local/share/jobradar/jobradar.db"

[source]
base_url = "https://api.example-jobs.dev"
jobs_path = "/v1/jobs"
# OAuth2 client credentials; the secret is read from JOBRADAR_CLIENT_SECRET
token_url = ""
client_id = ""
scopes = ["jobs:read"]
page_size = 50
max_pages = 4
timeout_seconds = 20

[scoring]
default_min_score = 0  # applied to new radars

# Relative importance of each signal for new radars
[scoring.default_weights]
freshness = 1
low_proposals = 1
trust = 1
hire_rate = 1
budget = 1
expertise = 1
geo = 1
stack = 1

[scheduler]
timezone = ""        # IANA name, empty for local time
run_on_start = true  # run every active radar when 'watch' starts
fetch_first = false  # refresh jobs from the source before each run

[notify]
log = true
channel_prefix = "jobradar"
# Redis pub/sub is enabled by JOBRADAR_REDIS_URL

[mcp]
enabled = true
transport = "stdio"
`
