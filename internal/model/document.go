package model

// Document is one safety data sheet as plain text. ID is usually the source
// file name; Text is never modified once loaded.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"-"`
}
