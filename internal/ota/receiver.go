package ota

import (
	"context"
	"crypto/subtle"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Receiver errors.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBusy         = errors.New("update already in progress")
)

const chunkSize = 32 * 1024

// Receiver writes an uploaded firmware image to disk, pushing progress
// events into a Queue.
type Receiver struct {
	token string
	path  string
	queue *Queue

	mu   sync.Mutex
	busy bool
}

// NewReceiver creates a Receiver writing to path. An empty token disables
// authentication.
func NewReceiver(token, path string, q *Queue) *Receiver {
	return &Receiver{token: token, path: path, queue: q}
}

// Receive streams body to disk. size is the expected length, or -1 when
// unknown. The image is written to a temporary file in the same directory
// and renamed into place only after every byte has arrived.
func (r *Receiver) Receive(ctx context.Context, token string, body io.Reader, size int64) error {
	if r.token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(r.token)) != 1 {
		logrus.Warnf("ota: rejected upload with bad token")
		return ErrUnauthorized
	}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return ErrBusy
	}
	r.busy = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".firmware-*")
	if err != nil {
		r.fail(ErrorBegin, err.Error())
		return errors.Wrap(err, "begin update")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	logrus.WithFields(logrus.Fields{"path": r.path, "size": size}).Info("ota: update started")
	r.queue.Push(Event{Kind: KindStart, Detail: r.path})

	written, err := r.copy(ctx, tmp, body, size)
	if err != nil {
		if ctx.Err() != nil {
			r.fail(ErrorConnect, ctx.Err().Error())
			return errors.Wrap(ctx.Err(), "connection")
		}
		r.fail(ErrorReceive, err.Error())
		return errors.Wrap(err, "receive")
	}
	if size >= 0 && written != size {
		r.fail(ErrorReceive, "short body")
		return errors.Errorf("receive: got %d of %d bytes", written, size)
	}

	if err := tmp.Sync(); err != nil {
		r.fail(ErrorEnd, err.Error())
		return errors.Wrap(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		r.fail(ErrorEnd, err.Error())
		return errors.Wrap(err, "close")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		r.fail(ErrorEnd, err.Error())
		return errors.Wrap(err, "install")
	}
	committed = true

	logrus.WithFields(logrus.Fields{"path": r.path, "bytes": written}).Info("ota: update finished")
	r.queue.Push(Event{Kind: KindEnd})
	return nil
}

func (r *Receiver) copy(ctx context.Context, w io.Writer, body io.Reader, size int64) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	lastPercent := -1
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if size > 0 {
				p := int(written * 100 / size)
				if p > 100 {
					p = 100
				}
				if p != lastPercent {
					lastPercent = p
					r.queue.Push(Event{Kind: KindProgress, Percent: p})
				}
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

func (r *Receiver) fail(code ErrorCode, detail string) {
	logrus.WithFields(logrus.Fields{"error": code.Label(), "detail": detail}).Warn("ota: update failed")
	r.queue.Push(Event{Kind: KindError, Code: code, Detail: detail})
}
