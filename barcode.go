package darf

import (
	"bytes"
	"fmt"
	"image"
	"regexp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/sunshineplan/imgconv"
	spdf "github.com/sunshineplan/pdf"
)

// Federal payment barcodes carry 44 digits.
var paymentBarcodeRe = regexp.MustCompile(`^\d{44}$`)

// decodePaymentBarcode renders the document and decodes the interleaved
// 2-of-5 payment barcode printed on DARF slips, returning its digit
// string. Embedded page images are tried first, then a full page render.
func decodePaymentBarcode(pdfData []byte) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			code = ""
			err = fmt.Errorf("panic while rendering PDF: %v", r)
		}
	}()

	var images []image.Image
	if embedded, decErr := spdf.DecodeAll(bytes.NewReader(pdfData)); decErr == nil {
		images = embedded
	}
	if page, decErr := imgconv.Decode(bytes.NewReader(pdfData)); decErr == nil {
		images = append(images, page)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no page image could be rendered")
	}

	for _, img := range images {
		// Small renders make the bars unreadable; upscale before scanning.
		if img.Bounds().Dx() < 1000 {
			img = imgconv.Resize(img, &imgconv.ResizeOption{
				Width:  img.Bounds().Dx() * 3,
				Height: img.Bounds().Dy() * 3,
			})
		}
		if code, scanErr := scanITF(img); scanErr == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("no payment barcode found")
}

// scanITF decodes a single ITF barcode from img and validates its shape.
func scanITF(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create bitmap: %w", err)
	}

	result, err := oned.NewITFReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}

	text := result.GetText()
	if !paymentBarcodeRe.MatchString(text) {
		return "", fmt.Errorf("decoded text %q is not a payment barcode", text)
	}
	return text, nil
}
