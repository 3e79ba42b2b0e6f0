// Package main provides the entry point for the impactradar CLI.
//
// impactradar scores fintech companies on the six IMPACT dimensions
// (Integration, Monetization, Pain Point, Automation, Compliance, Target)
// and exports the analysis as a Word document, Markdown, JSON, plain text
// or an SVG radar chart.
//
// Usage:
//
//	impactradar init -o acme.yaml
//	impactradar edit acme.yaml
//	impactradar score acme.yaml --format docx,json
//
// See --help for all available options.
package main

// main is the entry point for impactradar.
func main() {
	Execute()
}
