package tracing

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"rtl-support-chatbot-be/pkg/rag"
)

type fakeProcessor struct {
	resp  *rag.Response
	err   error
	calls int
}

func (f *fakeProcessor) ProcessQuery(ctx context.Context, query string, history rag.History) (*rag.Response, error) {
	f.calls++
	return f.resp, f.err
}

func TestTracedProcessorPassthrough(t *testing.T) {
	next := &fakeProcessor{resp: &rag.Response{Message: "hello"}}
	traced := NewTracedProcessor(next, log.New(io.Discard, "", 0))

	resp, err := traced.ProcessQuery(context.Background(), "q", rag.HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Message != "hello" {
		t.Errorf("response altered by tracing: %+v", resp)
	}
	if next.calls != 1 {
		t.Errorf("next called %d times", next.calls)
	}
}

func TestTracedProcessorPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	next := &fakeProcessor{err: wantErr}
	traced := NewTracedProcessor(next, log.New(io.Discard, "", 0))

	_, err := traced.ProcessQuery(context.Background(), "q", rag.HistoryFromStrings(nil))
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
