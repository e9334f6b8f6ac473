package model

// Source represents anything that can provide an initial set of recordings
type Source interface {
	Recordings() ([]Record, error)
}
