// Package analysis inspects sampled tracks.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of one column
//   - [Portrait]: one column against another, drawn as text
//
// A track that swings back and forth shows a peak at its swing frequency:
//
//	xs, _ := viz.Column(samples, "x")
//	hz := analysis.DominantFrequency(xs, dt)
package analysis
