// Package packing allocates demand units (cut pieces or power loads) onto as
// few capacity units (stock rolls or power sources) as First-Fit-Decreasing
// finds, and summarises the resulting plans. Every call is a pure function of
// its inputs.
package packing
