package schema

const (
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "filename"
	// MetadataKeyContentType is the key for the source file's content type.
	MetadataKeyContentType = "type"
	// MetadataKeyChunk is the key for the 1-based chunk ordinal within its document.
	MetadataKeyChunk = "chunk"
	// MetadataKeyTotalChunks is the key for the number of chunks the document split into.
	MetadataKeyTotalChunks = "totalChunks"
)

// Chunk is a bounded, ordered substring of a document prepared for
// independent embedding. Index is 0-based and sequential within the
// document; Start and End are rune offsets into the original text.
type Chunk struct {
	Text  string
	Index int
	Start int
	End   int
}

// Document is the record stored in the vector store: one sanitized chunk of
// text together with its embedding and metadata.
type Document struct {
	// ID is the unique identifier for this record.
	ID string `json:"id"`

	// Content is the sanitized chunk text.
	Content string `json:"content"`

	// Embedding is the vector representation of Content. It is omitted from
	// JSON payloads sent to clients.
	Embedding []float32 `json:"-"`

	// Metadata holds arbitrary data about the record, including the filename,
	// content type, chunk ordinal and total chunk count.
	Metadata map[string]interface{} `json:"metadata"`
}

// Retrieved is a stored record projected with its similarity score for one
// query. Results are ranked descending by Similarity.
type Retrieved struct {
	Document
	Similarity float64 `json:"similarity"`
}

// GenerateRequest carries one prompt to a chat model.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Delta is one streamed segment of a chat model's answer. Err is non-nil on
// the final delta when the stream failed mid-generation.
type Delta struct {
	Content string
	Err     error
}
