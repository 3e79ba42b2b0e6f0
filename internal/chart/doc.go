// Package chart adapts scores into closed radar polygons and renders them.
//
// Build turns a snapshot into one Series per polygon (the current analysis
// and, optionally, the traditional bank benchmark). Each series is closed by
// repeating its first value. WriteSVG and Mermaid are two chart surfaces
// that consume series; neither reads the scoring model directly.
package chart
