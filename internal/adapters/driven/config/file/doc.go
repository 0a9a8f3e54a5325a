// Package file provides the TOML-backed ConfigStore.
//
// Values are addressed with dot-notation keys ("webhook.url") and written
// back as nested TOML tables, so the file stays readable by hand:
//
//	[webhook]
//	url = "https://discord.com/api/webhooks/..."
//
//	[scan]
//	concurrency = 4
package file
