package help

const QuickstartYAML = `# changelog-mcp Quick Start

sources:
  current_year: "<base-url><year>/ (required, a failure fails the request)"
  previous_year: "<base-url><year-1>/ (best effort, a failure contributes nothing)"

output_formats:
  json: "Same payloads the MCP tools return (default)"
  yaml: "YAML rendering of the same payloads"
  table: "Coloured terminal table"

commands:
  mcp_server: |
    changelog-mcp serve

  recent: |
    changelog-mcp recent --count 5 --format table

  filtered: |
    changelog-mcp entries --category copilot --type RELEASE --start-date 2026-01-01

  search: |
    changelog-mcp search "code review" --limit 10

  categories: |
    changelog-mcp categories --format yaml

  stats: |
    changelog-mcp stats --start-date 2026-07-01 --top 20

  details: |
    changelog-mcp details 2026-10-02-release-arm-runners-for-actions

mcp_tools:
  get_changelog_entries: "startDate, endDate, categories[], types[], searchTerm, limit (50, max 500)"
  get_recent_entries: "count (10, max 50), category, type"
  get_changelog_categories: "no arguments"
  search_changelog: "query (required), limit (20, max 100)"
  clear_changelog_cache: "no arguments"
  get_changelog_stats: "startDate, endDate, top (10, max 50)"
  get_entry_details: "id (required)"

filter_rules:
  - "Dimensions combine with AND, values inside categories and types with OR"
  - "Dates are inclusive at both ends"
  - "Categories match case-insensitively, types exactly (IMPROVEMENT, RELEASE, RETIRED)"
  - "searchTerm matches title or category, case-insensitively"
  - "limit/count only trim the already filtered, newest-first list"

configuration:
  file: "--config path.yaml (base_url, cache_ttl, sweep_interval, request_timeout, user_agent, log_level)"
  env: "CHANGELOG_BASE_URL, CHANGELOG_CACHE_TTL, CHANGELOG_SWEEP_INTERVAL, CHANGELOG_TIMEOUT, CHANGELOG_USER_AGENT, CHANGELOG_LOG_LEVEL"
  precedence: "defaults < config file < env/flags"

error_behavior:
  - "Tool failures return isError with error_type: invalid_params, fetch_error, extraction_error, timeout, not_found, internal_error"
  - "Logs are JSON on stderr, payloads on stdout"
  - "Exit codes: 0=success, 1=failure"
`
