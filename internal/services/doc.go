// Package services defines shared utilities consumed by the pipeline stages
// and external API integrations.
//
// Key responsibilities:
//   - Context helpers that stamp render job IDs, stage names, and scene
//     indices for logging.
//   - Structured error markers plus the Wrap helper so every stage reports
//     failures in the same shape and the ledger can classify them.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
