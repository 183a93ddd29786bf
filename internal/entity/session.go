package entity

// Session is a client-scoped conversational context. A session is bound to at
// most one knowledge base (vendor vector store) at a time; an empty
// KnowledgeBase means no documents have been ingested yet.
type Session struct {
	ID            string
	KnowledgeBase string
}

// DocumentRecord maps an uploaded document to its vendor-side identity.
// Hash is the SHA-256 digest of the raw bytes and acts as the dedup key
// within a session.
type DocumentRecord struct {
	ID       string
	Filename string
	Hash     string
}
