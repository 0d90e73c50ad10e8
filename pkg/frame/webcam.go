package frame

import (
	"context"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local V4L2 camera via OpenCV.
type Webcam struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
}

// OpenWebcam opens the camera at the given device index.
func OpenWebcam(device int) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, &CaptureError{Reason: "open camera", Err: err}
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, &CaptureError{Reason: "camera busy or missing"}
	}
	return &Webcam{cap: cap}, nil
}

// Capture grabs one frame from the camera.
func (w *Webcam) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CaptureError{Reason: "cancelled", Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.cap.Read(&img); !ok || img.Empty() {
		return nil, &CaptureError{Reason: "camera read failed"}
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(img, &rgb, gocv.ColorBGRToRGB)

	pixels := rgb.ToBytes()
	buf := make([]byte, len(pixels))
	copy(buf, pixels)

	jpeg, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, &CaptureError{Reason: "jpeg encode", Err: err}
	}
	defer jpeg.Close()

	encoded := make([]byte, len(jpeg.GetBytes()))
	copy(encoded, jpeg.GetBytes())

	return &Frame{
		Pixels:     buf,
		Width:      rgb.Cols(),
		Height:     rgb.Rows(),
		JPEG:       encoded,
		CapturedAt: time.Now(),
	}, nil
}

// Close releases the camera.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cap.Close()
}

// Verify Webcam implements Source at compile time.
var _ Source = (*Webcam)(nil)
