package domain

// NoRelevantContent is the deterministic response returned when retrieval
// finds no chunks. The generation provider is never called in that case.
const NoRelevantContent = "I couldn't find any relevant information."

// Answer is the result of a grounded query against the knowledge base
type Answer struct {
	// Text is the generated answer, or NoRelevantContent when nothing
	// was retrieved
	Text string `json:"answer"`

	// SourceURLs lists the distinct URLs of the chunks the answer was
	// grounded in, in retrieval order
	SourceURLs []string `json:"source_urls"`

	// Grounded is false when no chunks were retrieved and Text is the
	// NoRelevantContent sentinel
	Grounded bool `json:"grounded"`
}
