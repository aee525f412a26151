package v1alpha1

import "time"

// Envelope wraps every successful response of the estimate and configuration endpoints.
type Envelope[T any] struct {
	Success   bool      `json:"success"`
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEnvelope[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

type Error struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Info struct {
	GitCommit   string `json:"gitCommit"`
	VersionName string `json:"versionName"`
}
