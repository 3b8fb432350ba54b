package predictions

import "errors"

var (
	// ErrMissingUpload: request carried no image file.
	ErrMissingUpload = errors.New("missing image upload")
	// ErrOversizeUpload: upload is larger than MaxUploadBytes.
	ErrOversizeUpload = errors.New("upload exceeds maximum size")
	// ErrPreprocessing: bytes could not be decoded into an image tensor.
	ErrPreprocessing = errors.New("image preprocessing failed")
	// ErrModelUnavailable: the model artifact could not be fetched or loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInference: the forward pass failed or produced no scores.
	ErrInference = errors.New("inference failed")
	// ErrLedgerUnavailable: the prediction store could not be read or written.
	ErrLedgerUnavailable = errors.New("prediction ledger unavailable")
	// ErrDuplicateID: a record with the same id already exists.
	ErrDuplicateID = errors.New("prediction id already exists")
	// ErrUploadStaging: the raw upload could not be staged.
	ErrUploadStaging = errors.New("upload staging failed")
)
