// Package qr decodes QR codes from uploaded images.
package qr

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder extracts QR code payloads from raw image bytes.
type Decoder struct{}

// NewDecoder creates a QR code decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the text payload of the first QR code found in the image, or
// an empty string when the image contains no readable QR code. Undecodable
// image data is treated the same as an image without a code.
func (d *Decoder) Decode(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return ""
	}

	return result.GetText()
}
