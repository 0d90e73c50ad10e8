package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/irislabs/go-iris/pkg/frame"
)

// YOLOConfig holds YOLO model configuration.
type YOLOConfig struct {
	ModelPath   string
	ScoreFloor  float32 // raw candidates below this never leave the model
	NMSThresh   float32
	InputWidth  int
	InputHeight int
}

// DefaultYOLOConfig returns production defaults for YOLOv8n.
func DefaultYOLOConfig() YOLOConfig {
	return YOLOConfig{
		ModelPath:   "models/yolov8n.onnx",
		ScoreFloor:  0.25,
		NMSThresh:   0.45,
		InputWidth:  640,
		InputHeight: 640,
	}
}

// YOLOModel runs YOLOv8 object detection via OpenCV's DNN module.
// It implements Model; thresholding at the product confidence level
// happens in the Detector, not here.
type YOLOModel struct {
	net       gocv.Net
	config    YOLOConfig
	mu        sync.Mutex
	inputSize image.Point
}

// NewYOLO loads a YOLOv8 ONNX model.
func NewYOLO(cfg YOLOConfig) (*YOLOModel, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load YOLO model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLOModel{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Infer runs the model on a frame and returns raw detections with boxes
// in normalized (y1,x1,y2,x2) form.
func (m *YOLOModel) Infer(f *frame.Frame) ([]RawDetection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, err := matFromFrame(f)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	imgW := float32(img.Cols())
	imgH := float32(img.Rows())

	blob := gocv.BlobFromImage(img, 1.0/255.0, m.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	output := m.net.Forward("")
	defer output.Close()

	return m.parseOutput(output, imgW, imgH), nil
}

// matFromFrame builds a BGR Mat from the frame, preferring the encoded
// JPEG when present.
func matFromFrame(f *frame.Frame) (gocv.Mat, error) {
	if len(f.JPEG) > 0 {
		img, err := gocv.IMDecode(f.JPEG, gocv.IMReadColor)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("decode image: %w", err)
		}
		if img.Empty() {
			img.Close()
			return gocv.Mat{}, fmt.Errorf("empty image")
		}
		return img, nil
	}

	rgb, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pixels)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("wrap pixels: %w", err)
	}
	defer rgb.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgb, &bgr, gocv.ColorRGBToBGR)
	return bgr, nil
}

// parseOutput parses the YOLOv8 output tensor.
// Output shape: [1, 84, 8400] - 84 = 4 bbox + 80 classes.
func (m *YOLOModel) parseOutput(output gocv.Mat, imgW, imgH float32) []RawDetection {
	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	rows := output.Cols() // 8400 candidates
	cols := output.Rows() // 84

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	for i := 0; i < rows; i++ {
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			score := data[c*rows+i]
			if score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}

		if maxScore < m.config.ScoreFloor {
			continue
		}

		// center-form box, model input scale
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / float32(m.config.InputWidth))
		y1 := int((cy - h/2) * imgH / float32(m.config.InputHeight))
		x2 := int((cx + w/2) * imgW / float32(m.config.InputWidth))
		y2 := int((cy + h/2) * imgH / float32(m.config.InputHeight))

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, m.config.ScoreFloor, m.config.NMSThresh)

	raw := make([]RawDetection, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		raw = append(raw, RawDetection{
			ClassIndex: classIDs[idx],
			Score:      float64(confidences[idx]),
			Y1:         float64(box.Min.Y) / float64(imgH),
			X1:         float64(box.Min.X) / float64(imgW),
			Y2:         float64(box.Max.Y) / float64(imgH),
			X2:         float64(box.Max.X) / float64(imgW),
		})
	}
	return raw
}

// Close releases the model resources.
func (m *YOLOModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.Close()
}

// Verify YOLOModel implements Model at compile time.
var _ Model = (*YOLOModel)(nil)
