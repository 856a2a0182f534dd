package firms

import (
	"go.uber.org/zap"
)

// Result describes a completed conversion.
type Result struct {
	Output    string
	Directory *Directory
	Stats     Stats
}

// Convert reads the CSV at inPath, groups it, and writes the JSON lookup to
// outPath. A header lacking required columns yields *MissingColumnsError
// before anything is written.
func Convert(inPath, outPath string, opts ...Option) (*Result, error) {
	header, rows, err := ReadCSVFile(inPath)
	if err != nil {
		return nil, err
	}

	if err := ValidateHeader(header); err != nil {
		return nil, err
	}

	dir, stats := BuildNested(rows, opts...)

	if err := WriteJSON(outPath, dir); err != nil {
		return nil, err
	}

	states, cities, firms := dir.Counts()
	zap.L().Info("firms: conversion complete",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("rows", stats.Rows),
		zap.Int("kept", stats.Kept),
		zap.Int("skipped", stats.TotalSkipped()),
		zap.Int("states", states),
		zap.Int("cities", cities),
		zap.Int("firms", firms),
	)
	if stats.OutOfRange > 0 {
		zap.L().Warn("firms: rows with out-of-range coordinates",
			zap.Int("count", stats.OutOfRange),
		)
	}
	for reason, n := range stats.Skipped {
		zap.L().Debug("firms: skipped rows",
			zap.String("reason", string(reason)),
			zap.Int("count", n),
		)
	}

	return &Result{Output: outPath, Directory: dir, Stats: stats}, nil
}
