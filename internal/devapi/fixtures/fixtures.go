// Package fixtures embeds the canned analytics served by the dev API.
package fixtures

import "embed"

//go:embed strategies.json monthly_stats.json strategies/*.json
var FS embed.FS
