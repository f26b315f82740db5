package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageParse is the ABI decoding stage.
	StageParse Stage = "parse"
	// StageResolve is the selector derivation and collision-check stage.
	StageResolve Stage = "resolve"
	// StageEmit is the source rendering stage.
	StageEmit Stage = "emit"
	// StageWrite is the output file stage.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for one input file (or for the overall batch when
// File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
