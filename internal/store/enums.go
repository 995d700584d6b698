package store

type TranscriptType string

const (
	TypeManual TranscriptType = "manual" // Written by the uploader or community.
	TypeAuto   TranscriptType = "auto"   // Generated by speech recognition.
)

// TypeOf maps a track's speech recognition flag to the stored enum.
func TypeOf(auto bool) TranscriptType {
	if auto {
		return TypeAuto
	}

	return TypeManual
}
