// Package batch processes large item lists in fixed-size batches.
//
// Batches run sequentially and processing stops at the first failed batch.
// An optional progress callback runs after every batch, which the CLI uses
// to report bulk import progress.
package batch
