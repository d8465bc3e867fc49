package domain

import "encoding/json"

// CaptureInput is what the acquisition collaborator hands over for one platform check.
type CaptureInput struct {
	Platform           string            `json:"platform" validate:"required,max=64"`
	Query              QueryKind         `json:"query,omitempty" validate:"omitempty,oneof=handle name email phone location"`
	RawCapturedText    *string           `json:"rawCapturedText"`
	DecodedAPIPayloads []json.RawMessage `json:"decodedApiPayloads"`
	Error              ErrorKind         `json:"error"`
	ErrorDetail        string            `json:"errorDetail,omitempty"`
}
