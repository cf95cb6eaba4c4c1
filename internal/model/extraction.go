package model

// Statistics is a derived summary of extracted text.
// It carries no identity of its own and is recomputed from the text on demand.
type Statistics struct {
	WordCount     int     `json:"word_count"`
	SentenceCount int     `json:"sentence_count"`
	CharCount     int     `json:"char_count"`
	AvgWordLength float64 `json:"avg_word_length"`
}

// ExtractionResult is the response body of an OCR request.
type ExtractionResult struct {
	Text  string     `json:"text"`
	Stats Statistics `json:"stats"`
}

// ExportRequest is the client-supplied payload for a document export.
// Text may come from any source, not only a previous extraction.
type ExportRequest struct {
	Text string `json:"text"`
}
