package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# SkillExtract console configuration
version: "1.0"

# External analyzer that performs skill extraction
analyzer:
  # Root URL; /analyze and /health are appended.
  # Overridden by SKILLX_API_BASE_URL (also read from .env)
  base_url: "http://localhost:8000"
  # Upper bound on a single analysis request
  timeout: 60s
  # Larger resumes are rejected before upload (0 disables)
  max_upload_bytes: 20971520
  # auto | spatial | evidence
  response_shape: auto

console:
  # Pre-filled required skills (comma-separated)
  default_skills: "Python,FastAPI,React,SQL,Django"
  # Drop previous findings when a new resume is selected
  clear_on_file_select: false
  # skills: one radar point per required skill
  # topics: keyword density per capability topic
  radar_mode: skills
  # Required level for every skill in skills mode
  required_baseline: 85
  # auto | coordinates | percent
  overlay_mode: auto

# Local PDF rendering for the X-Ray view
render:
  width: 760
  height: 1075
  max_pages: 20
  # Minimum overlay size so tiny boxes stay visible
  min_box: 12

output:
  # text | json | markdown | csv
  default_format: text
  # auto | always | never
  color_mode: auto
  verbose: false
  # default | high-contrast | minimal
  theme: default
  # Logs go here while the interactive console owns the terminal
  log_file: "~/.cache/skillx/skillx.log"

watch:
  # Wait for writes to settle before re-analyzing
  debounce: 500ms

topics:
  # Directories with capability topic YAML files; built-in topics are
  # used when none are found
  directories:
    - ./topics
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
analyzer:
  base_url: "http://localhost:8000"
  timeout: 60s
console:
  default_skills: "Python,FastAPI,React,SQL,Django"
  radar_mode: skills
output:
  default_format: text
`
}
