package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://muurk.github.io/envdash/

// GettingStarted is the quick start guide: running the backend and
// pointing the dashboard at it.
const GettingStarted = "https://muurk.github.io/envdash/getting-started/"

// Configuration documents every key of config.yaml and the matching flags.
const Configuration = "https://muurk.github.io/envdash/configuration/"

// APIReference describes the /api endpoints and payloads the dashboard
// consumes.
const APIReference = "https://muurk.github.io/envdash/api/"

// Troubleshooting provides solutions to common connection and data issues.
const Troubleshooting = "https://muurk.github.io/envdash/troubleshooting/"

// Notifications explains the terminal bell and MQTT alert sinks.
const Notifications = "https://muurk.github.io/envdash/notifications/"
