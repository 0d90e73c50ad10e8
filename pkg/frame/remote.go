package frame

import (
	"bytes"
	"context"
	"image/jpeg"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/irislabs/go-iris/internal/log"
)

// Remote captures frames from a companion device that pushes MJPEG frames
// over a websocket. The reader keeps only the most recent frame; Capture
// hands out whatever is freshest, so a slow cycle never backs up the feed.
type Remote struct {
	url string

	ws         *websocket.Conn
	mu         sync.RWMutex
	latest     []byte
	frameReady chan struct{}
	closed     bool

	logger interface {
		Warn(msg string, args ...any)
	}
}

// DialRemote connects to a websocket MJPEG frame feed.
func DialRemote(url string) (*Remote, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, &CaptureError{Reason: "connect frame feed", Err: err}
	}

	r := &Remote{
		url:        url,
		ws:         ws,
		frameReady: make(chan struct{}, 1),
		logger:     log.With("component", "frame.remote"),
	}

	go r.readLoop()

	return r, nil
}

func (r *Remote) readLoop() {
	for {
		kind, data, err := r.ws.ReadMessage()
		if err != nil {
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if !closed {
				r.logger.Warn("frame feed read failed", "url", r.url, "error", err)
			}
			return
		}
		if kind != websocket.BinaryMessage || len(data) == 0 {
			continue
		}

		r.mu.Lock()
		r.latest = data
		r.mu.Unlock()

		select {
		case r.frameReady <- struct{}{}:
		default:
		}
	}
}

// Capture returns the most recent frame from the feed, waiting for the
// first frame if none has arrived yet.
func (r *Remote) Capture(ctx context.Context) (*Frame, error) {
	r.mu.RLock()
	data := r.latest
	r.mu.RUnlock()

	if data == nil {
		select {
		case <-r.frameReady:
			r.mu.RLock()
			data = r.latest
			r.mu.RUnlock()
		case <-ctx.Done():
			return nil, &CaptureError{Reason: "no frame from feed", Err: ctx.Err()}
		}
	}
	if data == nil {
		return nil, &CaptureError{Reason: "frame feed closed"}
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &CaptureError{Reason: "decode frame", Err: err}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			pixels = append(pixels, byte(cr>>8), byte(cg>>8), byte(cb>>8))
		}
	}

	return &Frame{
		Pixels:     pixels,
		Width:      w,
		Height:     h,
		JPEG:       data,
		CapturedAt: time.Now(),
	}, nil
}

// Close shuts down the websocket connection.
func (r *Remote) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.ws.Close()
}

// Verify Remote implements Source at compile time.
var _ Source = (*Remote)(nil)
