package domain

import "time"

// DefaultLibraryTitle se usa cuando el item no trae titulo.
const DefaultLibraryTitle = "Untitled"

// LibraryItem es un problema guardado por el usuario.
type LibraryItem struct {
	ID        string    `json:"id" bson:"id"`
	Problem   string    `json:"problem" bson:"problem"`
	Solution  string    `json:"solution" bson:"solution"`
	Title     string    `json:"title" bson:"title"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// HistoryItem es un problema resuelto.
type HistoryItem struct {
	ID        string    `json:"id" bson:"id"`
	Problem   string    `json:"problem" bson:"problem"`
	Solution  string    `json:"solution" bson:"solution"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
