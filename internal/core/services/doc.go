// Package services implements the driving port interfaces.
// Services contain the core logic of a run: dispatch to an extractor,
// scan and deduplicate the extracted text, then hand the result to the
// reporter. They orchestrate driven ports and never touch files,
// networks or external tools directly.
package services
