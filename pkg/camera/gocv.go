package camera

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// stream reads frames through OpenCV and re-encodes them as JPEG.
type stream struct {
	mu      sync.Mutex
	cap     *gocv.VideoCapture
	mat     gocv.Mat
	quality int
	closed  bool
}

// OpenStream opens an MJPEG URL or a numeric device index with OpenCV.
func OpenStream(url string, quality int) (FrameSource, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if idx, convErr := strconv.Atoi(url); convErr == nil {
		vc, err = gocv.OpenVideoCapture(idx)
	} else {
		vc, err = gocv.OpenVideoCapture(url)
	}
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", url, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera: open %s: not opened", url)
	}
	return &stream{cap: vc, mat: gocv.NewMat(), quality: quality}, nil
}

func (s *stream) Next() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStreamClosed
	}

	if ok := s.cap.Read(&s.mat); !ok {
		return nil, ErrStreamClosed
	}
	if s.mat.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, s.mat, []int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode: %w", err)
	}
	defer buf.Close()
	return bytes.Clone(buf.GetBytes()), nil
}

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.cap.Close(); err != nil {
		s.mat.Close()
		return err
	}
	return s.mat.Close()
}
