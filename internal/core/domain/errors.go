package domain

import "go.trai.ch/zerr"

var (
	// ErrDocumentParseFailed is returned when the input document cannot be parsed.
	ErrDocumentParseFailed = zerr.New("failed to parse input document")

	// ErrDocumentEmpty is returned when the input document has no root element.
	ErrDocumentEmpty = zerr.New("input document has no root element")

	// ErrLayerNotFound is returned when a plan references a layer that does not exist in the document.
	ErrLayerNotFound = zerr.New("layer not found in document")

	// ErrImportRemoveMissing is returned when an import directive removes a layer that is not in the frame's layer list.
	ErrImportRemoveMissing = zerr.New("import directive removes a layer that is not part of the frame")

	// ErrInvalidOpacity is returned when a layer reference carries an unparsable or out-of-range opacity.
	ErrInvalidOpacity = zerr.New("invalid layer opacity, expected a number in [0,1]")

	// ErrNoSlides is returned when plan compilation produces no frames.
	ErrNoSlides = zerr.New("document contains no slides")

	// ErrWorkDirCreateFailed is returned when the slide work directory cannot be created.
	ErrWorkDirCreateFailed = zerr.New("failed to create work directory")

	// ErrSlideWriteFailed is returned when a materialized slide cannot be written.
	ErrSlideWriteFailed = zerr.New("failed to write materialized slide")

	// ErrEngineStartFailed is returned when a render engine process cannot be started.
	ErrEngineStartFailed = zerr.New("failed to start render engine")

	// ErrEngineExited is returned when a render engine closes its output stream while a job is outstanding.
	ErrEngineExited = zerr.New("render engine exited unexpectedly")

	// ErrEngineTimeout is returned when a render engine does not signal readiness in time.
	ErrEngineTimeout = zerr.New("timed out waiting for render engine to become ready")

	// ErrArtifactMissing is returned when the engine acknowledged a job but the artifact never appeared.
	ErrArtifactMissing = zerr.New("render engine produced no artifact")

	// ErrNoMergeTool is returned when no PDF merge backend is available on the host.
	ErrNoMergeTool = zerr.New("no tool to merge PDF files available")

	// ErrMergeFailed is returned when the selected merge backend reports a failure.
	ErrMergeFailed = zerr.New("failed to merge PDF slides")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrBuildFailed is returned when the slide build fails. The CLI maps it to a non-zero exit code.
	ErrBuildFailed = zerr.New("build failed")
)

// Annotate attaches a metadata pair to an error, keeping the original error
// in the unwrap chain so errors.Is still matches its kind. Attaching
// metadata to a sentinel directly would copy it and lose its identity.
func Annotate(err error, key string, value any) error {
	return zerr.With(zerr.Wrap(err, ""), key, value)
}
