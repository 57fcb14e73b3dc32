package ports

// Reporter receives per-stage and per-frame progress of a build. All methods
// must be safe for concurrent use; workers report completions from multiple
// goroutines.
type Reporter interface {
	// Parsing announces that the input document is being parsed.
	Parsing(input string)

	// Materializing announces the materialization stage and the total frame
	// count, which later completion percentages are computed against.
	Materializing(frames int)

	// Rendering announces the render stage with the number of jobs that
	// missed the cache and the worker pool size.
	Rendering(jobs, workers int)

	// Skipped reports a frame whose cached artifact is reused.
	Skipped(target string)

	// Converted reports a freshly rendered frame.
	Converted(target string)

	// Merging announces the merge stage and the chosen backend.
	Merging(tool string)

	// UpToDate reports that every frame was cached and the output already exists.
	UpToDate()

	// Done reports the path of the finished output document.
	Done(output string)
}
