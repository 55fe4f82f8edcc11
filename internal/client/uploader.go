package client

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// Status is the state of the upload flow.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusUploading:
		return "Uploading"
	case StatusSuccess:
		return "Success"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

var (
	// ErrNoFile is returned by Submit when nothing is staged.
	ErrNoFile = errors.New("No file selected!")
	// ErrBusy is returned by Submit and ClearGallery while an upload runs.
	ErrBusy = errors.New("upload already in progress")
)

// API is the part of the server the upload flow needs.
type API interface {
	Upload(ctx context.Context, f File, onProgress ProgressFunc) (*UploadResult, error)
	DeleteAll(ctx context.Context) (string, error)
}

// ImageSource supplies random pictures and their preview URL.
type ImageSource interface {
	Random(ctx context.Context) (File, string, error)
}

// State is a snapshot of the upload flow.
type State struct {
	Status   Status
	Progress int
	Staged   []File
	// Preview is the remote URL of a fetched random picture.
	Preview  string
	Uploaded []UploadResult
	Err      error
}

// Uploader owns the upload flow: staging files, submitting them with
// progress, and clearing the gallery.
type Uploader struct {
	api    API
	source ImageSource
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// NewUploader returns an idle Uploader.
func NewUploader(api API, source ImageSource, logger *slog.Logger) *Uploader {
	return &Uploader{api: api, source: source, logger: logger}
}

// OnChange registers fn to receive a snapshot after every state change.
// Observers run on the goroutine that caused the change.
func (u *Uploader) OnChange(fn func(State)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.observers = append(u.observers, fn)
}

// State returns the current snapshot.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snapshot()
}

// Select stages local files, replacing anything staged before.
func (u *Uploader) Select(files ...File) {
	u.update(func(s *State) {
		s.Staged = slices.Clone(files)
		s.Preview = ""
	})
}

// Add stages more files after those already staged. The preview is kept.
func (u *Uploader) Add(files ...File) {
	u.update(func(s *State) {
		s.Staged = append(s.Staged, files...)
	})
}

// FetchRandom downloads a random picture and stages it. It never uploads;
// the caller submits explicitly. On failure the state is left as it was.
func (u *Uploader) FetchRandom(ctx context.Context) error {
	f, preview, err := u.source.Random(ctx)
	if err != nil {
		u.logger.Error("fetching random image failed", "error", err)
		return err
	}
	u.update(func(s *State) {
		s.Staged = []File{f}
		s.Preview = preview
	})
	return nil
}

// Submit uploads every staged file, one request per file. The flow moves
// to Uploading, then to Success once all files are stored, or to Error with
// progress reset at the first failure.
func (u *Uploader) Submit(ctx context.Context) ([]UploadResult, error) {
	u.mu.Lock()
	if len(u.state.Staged) == 0 {
		u.mu.Unlock()
		return nil, ErrNoFile
	}
	if u.state.Status == StatusUploading {
		u.mu.Unlock()
		return nil, ErrBusy
	}
	files := slices.Clone(u.state.Staged)
	u.state.Status = StatusUploading
	u.state.Progress = 0
	u.state.Err = nil
	u.notifyLocked()

	results := make([]UploadResult, 0, len(files))
	for i, f := range files {
		if i > 0 {
			u.update(func(s *State) { s.Progress = 0 })
		}

		res, err := u.api.Upload(ctx, f, u.trackProgress)
		if err != nil {
			u.logger.Error("upload failed", "file", f.Name, "error", err)
			u.update(func(s *State) {
				s.Status = StatusError
				s.Progress = 0
				s.Err = err
			})
			return results, err
		}

		results = append(results, *res)
		u.update(func(s *State) { s.Uploaded = append(s.Uploaded, *res) })
	}

	u.update(func(s *State) {
		s.Status = StatusSuccess
		s.Progress = 100
	})
	return results, nil
}

// ClearGallery deletes every picture on the server and, on success, resets
// the flow to Idle with nothing staged. It refuses to run during an upload.
func (u *Uploader) ClearGallery(ctx context.Context) (string, error) {
	if u.State().Status == StatusUploading {
		return "", ErrBusy
	}
	msg, err := u.api.DeleteAll(ctx)
	if err != nil {
		u.logger.Error("deleting images failed", "error", err)
		return "", err
	}
	u.update(func(s *State) {
		*s = State{Status: StatusIdle}
	})
	return msg, nil
}

func (u *Uploader) trackProgress(sent, total int64) {
	p := Percent(sent, total)
	u.mu.Lock()
	if u.state.Status != StatusUploading || u.state.Progress == p {
		u.mu.Unlock()
		return
	}
	u.state.Progress = p
	u.notifyLocked()
}

// update applies fn under the lock and notifies observers.
func (u *Uploader) update(fn func(*State)) {
	u.mu.Lock()
	fn(&u.state)
	u.notifyLocked()
}

// notifyLocked must be called with u.mu held; it releases the lock before
// running observers.
func (u *Uploader) notifyLocked() {
	snap := u.snapshot()
	observers := slices.Clone(u.observers)
	u.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

func (u *Uploader) snapshot() State {
	s := u.state
	s.Staged = slices.Clone(u.state.Staged)
	s.Uploaded = slices.Clone(u.state.Uploaded)
	return s
}
