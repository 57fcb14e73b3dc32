package domain

// RenderJob is the unit of work handed from the materializer to the render
// pipeline. One job exists per frame; jobs with CacheHit set never reach a
// worker, their artifact is reused as-is by the merge stage.
type RenderJob struct {
	FrameIndex int
	SourcePath string
	TargetPath string
	CacheHit   bool
}

// SplitJobs partitions the per-frame job list into the complete ordered
// artifact path list (cache hits and misses alike, in frame order) and the
// subset that actually needs rendering.
func SplitJobs(jobs []RenderJob) (artifacts []string, misses []RenderJob) {
	artifacts = make([]string, 0, len(jobs))
	for _, job := range jobs {
		artifacts = append(artifacts, job.TargetPath)
		if !job.CacheHit {
			misses = append(misses, job)
		}
	}
	return artifacts, misses
}
