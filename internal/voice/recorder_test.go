package voice

import (
	"errors"
	"testing"
)

type fakeCapture struct {
	startErr error
	stopErr  error
	audio    []byte

	started int
	stopped int
}

func (f *fakeCapture) Start() error {
	f.started++
	return f.startErr
}

func (f *fakeCapture) Stop() ([]byte, error) {
	f.stopped++
	return f.audio, f.stopErr
}

func TestRecorderCycle(t *testing.T) {
	cap := &fakeCapture{audio: []byte("RIFFdata")}
	r := NewRecorder(cap)

	if r.State() != StateIdle {
		t.Fatal("recorder should start idle")
	}

	if err := r.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !r.Recording() {
		t.Error("recorder should be recording")
	}

	audio, err := r.Stop()
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if string(audio) != "RIFFdata" {
		t.Error("stop should hand back the captured audio")
	}
	if r.State() != StateTranscribing {
		t.Error("recorder should be transcribing after stop")
	}

	r.Finish()
	if r.State() != StateIdle {
		t.Error("recorder should return to idle")
	}
}

func TestSecondStartWhileRecordingIsNoOp(t *testing.T) {
	cap := &fakeCapture{}
	r := NewRecorder(cap)

	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Errorf("second start should be a silent no-op, got %v", err)
	}
	if cap.started != 1 {
		t.Errorf("capture device acquired %d times, want 1", cap.started)
	}
}

func TestStartDeniedReturnsToIdle(t *testing.T) {
	cap := &fakeCapture{startErr: errors.New("device busy")}
	r := NewRecorder(cap)

	err := r.Start()
	if err == nil {
		t.Fatal("expected permission error to surface")
	}
	if r.State() != StateIdle {
		t.Error("denied start must leave the recorder idle")
	}
}

func TestStopFailureReleasesAndReturnsToIdle(t *testing.T) {
	cap := &fakeCapture{stopErr: errors.New("no audio captured")}
	r := NewRecorder(cap)

	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Stop(); err == nil {
		t.Fatal("expected stop error to surface")
	}
	if cap.stopped != 1 {
		t.Error("capture must be released exactly once")
	}
	if r.State() != StateIdle {
		t.Error("failed stop must return to idle")
	}
}

func TestStopWithoutRecording(t *testing.T) {
	r := NewRecorder(&fakeCapture{})
	if _, err := r.Stop(); err == nil {
		t.Error("stop without a recording should error")
	}
}
