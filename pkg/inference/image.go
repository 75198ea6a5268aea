package inference

import (
	"encoding/base64"
)

// MIMEJPEG is the content type of camera frames.
const MIMEJPEG = "image/jpeg"

// Image is an encoded image payload.
type Image struct {
	Data     []byte
	MIMEType string
}

// JPEG wraps raw JPEG bytes.
func JPEG(data []byte) Image {
	return Image{Data: data, MIMEType: MIMEJPEG}
}

// FromBase64 decodes a base64 JPEG frame.
func FromBase64(b64 string) (Image, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Image{}, err
	}
	return JPEG(data), nil
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = MIMEJPEG
	}
	return "data:" + mime + ";base64," + i.Base64()
}

// Newest returns at most n images from the end of images.
func Newest(images []Image, n int) []Image {
	if n <= 0 {
		return nil
	}
	if len(images) <= n {
		return images
	}
	return images[len(images)-n:]
}
