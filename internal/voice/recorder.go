package voice

import (
	"fmt"
	"os"
	"os/exec"
	"time"
)

// State tracks the voice input bridge.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
)

// Capture acquires and releases the underlying audio device. Stop must
// release every resource the matching Start acquired, on every path.
type Capture interface {
	Start() error
	Stop() ([]byte, error)
}

// Recorder drives the Idle -> Recording -> Transcribing -> Idle cycle.
// The transcription call itself is the caller's job; the recorder only
// hands over the finalized audio and tracks the state so a second start
// while recording is a no-op.
type Recorder struct {
	state   State
	capture Capture
}

func NewRecorder(capture Capture) *Recorder {
	return &Recorder{capture: capture}
}

func (r *Recorder) State() State    { return r.state }
func (r *Recorder) Recording() bool { return r.state == StateRecording }

// Start begins capturing. Anything but the idle state makes it a no-op;
// a capture failure (denied device, missing recorder binary) leaves the
// recorder idle and is surfaced to the user as a notification.
func (r *Recorder) Start() error {
	if r.state != StateIdle {
		return nil
	}
	if err := r.capture.Start(); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}
	r.state = StateRecording
	return nil
}

// Stop finalizes the clip and moves to Transcribing. The capture device
// is released regardless of outcome.
func (r *Recorder) Stop() ([]byte, error) {
	if r.state != StateRecording {
		return nil, fmt.Errorf("no recording in progress")
	}
	audio, err := r.capture.Stop()
	if err != nil {
		r.state = StateIdle
		return nil, fmt.Errorf("failed to finalize recording: %w", err)
	}
	r.state = StateTranscribing
	return audio, nil
}

// Finish returns to idle once the transcription request resolved, in
// either direction.
func (r *Recorder) Finish() {
	r.state = StateIdle
}

// ExecCapture records through an external command (sox/arecord) writing
// a WAV file, the usual way terminal apps reach the microphone. The
// process and temp file are released on every exit path.
type ExecCapture struct {
	// Override forces a specific recorder binary instead of auto-detection.
	Override string

	cmd  *exec.Cmd
	path string
}

// recorderCommand resolves the capture command line for a target path.
func (c *ExecCapture) recorderCommand(path string) (*exec.Cmd, error) {
	if c.Override != "" {
		return exec.Command(c.Override, path), nil
	}
	if bin, err := exec.LookPath("rec"); err == nil {
		// sox's rec: defaults to the system microphone.
		return exec.Command(bin, "-q", path), nil
	}
	if bin, err := exec.LookPath("sox"); err == nil {
		return exec.Command(bin, "-q", "-d", path), nil
	}
	if bin, err := exec.LookPath("arecord"); err == nil {
		return exec.Command(bin, "-q", "-f", "cd", "-t", "wav", path), nil
	}
	return nil, fmt.Errorf("no audio recorder found (install sox or arecord)")
}

func (c *ExecCapture) Start() error {
	tmp, err := os.CreateTemp("", "clawchat-rec-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	cmd, err := c.recorderCommand(path)
	if err != nil {
		os.Remove(path)
		return err
	}
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to start recorder: %w", err)
	}

	c.cmd = cmd
	c.path = path
	return nil
}

func (c *ExecCapture) Stop() ([]byte, error) {
	if c.cmd == nil {
		return nil, fmt.Errorf("capture not started")
	}
	defer func() {
		os.Remove(c.path)
		c.cmd = nil
		c.path = ""
	}()

	// Recorders flush and exit cleanly on SIGINT.
	_ = c.cmd.Process.Signal(os.Interrupt)

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = c.cmd.Process.Kill()
		<-done
	}

	audio, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture file: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio captured")
	}
	return audio, nil
}
