// Package pipeline exports analysis files.
//
// Each file is carried through a Pipeline of steps as a Job: LoadStep reads
// and validates the file, ExportStep writes it in every requested format and
// ArchiveStep records it in the archive. BatchProcessor runs one pipeline
// per file with bounded concurrency using errgroup.
package pipeline
