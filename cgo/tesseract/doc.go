// Package tesseract provides the Tesseract recognition engine through
// gosseract. It implements the driven.RecognitionEngine interface.
//
// The real engine is only compiled with CGO enabled and the ocr build tag:
//
//	go build -tags ocr ./...
//
// Build requires:
//   - Tesseract and Leptonica development libraries
//   - Install via: brew install tesseract (macOS) or apt install libtesseract-dev libleptonica-dev (Linux)
//   - Language data for every configured language (e.g. tesseract-ocr-vie)
//
// Without them the stub engine returns domain.ErrOCRNotEnabled.
package tesseract
