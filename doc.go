// Package pcm provides random-access sample retrieval from uncompressed
// PCM audio stored in RIFF WAV and Sony Wave64 containers.
//
// Open probes a file against both containers and returns a Provider
// exposing the PCM format parameters and a frame-addressed read
// operation. Files are accessed through a re-usable memory-mapped
// window, so arbitrarily large files can be read without loading them
// into memory or re-opening them per read.
//
// The package decodes linear PCM only. It does not resample, mix, or
// convert sample formats, and it never writes audio. Compressed
// encodings (including IEEE float) are rejected with a descriptive
// error.
//
// Data chunks wrapped in a 'wavl' (wave list) chunk are not supported:
// only chunks visible at the top level of the container are indexed.
package pcm
