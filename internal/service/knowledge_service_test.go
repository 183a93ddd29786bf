package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
)

// fakeIndex counts remote documents so tests can assert that dedup never
// creates duplicates vendor-side.
type fakeIndex struct {
	createCalls   int
	createErr     error
	uploadErrFor  map[string]error
	documents     map[string]string // document id -> filename
	attached      map[string]bool
	removed       []string
	nextDocNumber int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		uploadErrFor: make(map[string]error),
		documents:    make(map[string]string),
		attached:     make(map[string]bool),
	}
}

func (f *fakeIndex) CreateIndex(_ context.Context, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createCalls++
	return "vs_test_" + name, nil
}

func (f *fakeIndex) UploadDocument(_ context.Context, filename string, _ []byte) (string, error) {
	if err := f.uploadErrFor[filename]; err != nil {
		return "", err
	}
	f.nextDocNumber++
	id := fmt.Sprintf("file-%d", f.nextDocNumber)
	f.documents[id] = filename
	return id, nil
}

func (f *fakeIndex) AttachDocument(_ context.Context, indexID, documentID string) error {
	f.attached[indexID+"/"+documentID] = true
	return nil
}

func (f *fakeIndex) RemoveDocument(_ context.Context, indexID, documentID string) error {
	f.removed = append(f.removed, documentID)
	return nil
}

func newKnowledgeFixture(index *fakeIndex) IKnowledgeService {
	repo := memory.NewSessionRepository()
	return NewKnowledgeService(repo, index, nil, 0, &nopLogger{})
}

func TestIngestDeduplicatesByHash(t *testing.T) {
	index := newFakeIndex()
	svc := newKnowledgeFixture(index)

	fileA := IngestFile{Filename: "a.txt", Content: []byte("alpha content")}

	res, err := svc.Ingest(context.Background(), "sess-1", []IngestFile{fileA})
	assert.NoError(t, err)
	assert.Len(t, res.Files, 1)
	assert.Equal(t, dto.FileStatusIngested, res.Files[0].Status)
	assert.Equal(t, 1, len(index.documents))

	// Byte-identical re-upload must not create a new remote document.
	res, err = svc.Ingest(context.Background(), "sess-1", []IngestFile{fileA})
	assert.NoError(t, err)
	assert.Equal(t, dto.FileStatusDuplicate, res.Files[0].Status)
	assert.Equal(t, "Successfully uploaded 0 new file(s)", res.Message)
	assert.Equal(t, 1, len(index.documents))
	assert.Equal(t, 1, index.createCalls, "knowledge base must be created once")
}

func TestIngestReportsPerFileFailures(t *testing.T) {
	index := newFakeIndex()
	index.uploadErrFor["bad.txt"] = errors.New("vendor rejected file")
	svc := newKnowledgeFixture(index)

	res, err := svc.Ingest(context.Background(), "sess-1", []IngestFile{
		{Filename: "good.txt", Content: []byte("good")},
		{Filename: "bad.txt", Content: []byte("bad")},
	})
	assert.NoError(t, err, "individual file failures must not abort the batch")
	assert.Len(t, res.Files, 2)
	assert.Equal(t, dto.FileStatusIngested, res.Files[0].Status)
	assert.Equal(t, dto.FileStatusFailed, res.Files[1].Status)
	assert.Contains(t, res.Files[1].Error, "vendor rejected file")
	assert.Equal(t, "Successfully uploaded 1 new file(s)", res.Message)
}

func TestIngestAbortsWhenIndexCreationFails(t *testing.T) {
	index := newFakeIndex()
	index.createErr = errors.New("quota exceeded")
	svc := newKnowledgeFixture(index)

	_, err := svc.Ingest(context.Background(), "sess-1", []IngestFile{
		{Filename: "a.txt", Content: []byte("alpha")},
	})
	assert.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.KindIndexCreation, kind)
}

func TestDeleteRemovesMappingsThenRemote(t *testing.T) {
	index := newFakeIndex()
	svc := newKnowledgeFixture(index)

	content := []byte("delete me")
	hash := HashContent(content)

	res, err := svc.Ingest(context.Background(), "sess-1", []IngestFile{
		{Filename: "doomed.txt", Content: content},
	})
	assert.NoError(t, err)
	docID := res.Files[0].FileID

	err = svc.Delete(context.Background(), "sess-1", "doomed.txt", hash)
	assert.NoError(t, err)
	assert.Equal(t, []string{docID}, index.removed)

	// Second delete of the same hash reports not found.
	err = svc.Delete(context.Background(), "sess-1", "doomed.txt", hash)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteWithoutKnowledgeBase(t *testing.T) {
	svc := newKnowledgeFixture(newFakeIndex())

	err := svc.Delete(context.Background(), "sess-none", "x.txt", "deadbeef")
	assert.True(t, apperrors.IsNotFound(err))
}

// The end-to-end scenario: upload A, upload A again, delete A, delete A again.
func TestIngestDeleteScenario(t *testing.T) {
	index := newFakeIndex()
	svc := newKnowledgeFixture(index)

	content := []byte("scenario file")
	hash := HashContent(content)
	fileA := IngestFile{Filename: "a.txt", Content: content}

	res, err := svc.Ingest(context.Background(), "sess-s", []IngestFile{fileA})
	assert.NoError(t, err)
	assert.Equal(t, dto.FileStatusIngested, res.Files[0].Status)

	res, err = svc.Ingest(context.Background(), "sess-s", []IngestFile{fileA})
	assert.NoError(t, err)
	assert.Equal(t, dto.FileStatusDuplicate, res.Files[0].Status)
	assert.Equal(t, 1, index.createCalls)

	assert.NoError(t, svc.Delete(context.Background(), "sess-s", "a.txt", hash))
	assert.True(t, apperrors.IsNotFound(svc.Delete(context.Background(), "sess-s", "a.txt", hash)))
}
